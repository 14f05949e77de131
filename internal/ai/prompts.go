package ai

const parseResumePrompt = `You are an expert resume parser. Given the resume text below, extract all relevant information in structured JSON format as described:

{
  "name": "",
  "title": "",
  "contact_info": "",  // Combine all contact details and social links (phone, email, LinkedIn, location, etc.) and separate them with " | "
  "sections": [
    {
      "type": "paragraph" | "bullet_points" | "experience" | "education",
      "title": "",
      "content": "",           // for paragraph type only
      "items": [],             // for bullet_points, experience or education only
      "title_formatting": {"alignment": "left", "font_size": 16, "font_weight": "bold"},
      "content_formatting": {"alignment": "left", "font_size": 14, "font_weight": "normal"}
    }
  ]
}

Experience items look like {"position": "", "company": "", "start_month": "", "start_year": "", "end_type": "None" | "Present" | "Specific Month", "end_month": "", "end_year": "", "bullet_points": []}.
Education items look like {"degree": "", "institution": "", "start_month": "", "start_year": "", "end_type": "None" | "Present" | "Specific Month", "end_month": "", "end_year": "", "details": ""}.
Never include a section that has no content and no items.
Return ONLY the JSON object, with no explanation or extra text.

Input resume:
%s`

const rewriteResumePrompt = `Rewrite the following resume to best match this job description. Keep it truthful, but optimize for keywords, skills, and achievements relevant to the JD. Output in the same JSON structure as before keeping the formatting same as before.
Never include a section that has no content and no items.

Job Description:
%s

Resume:
%s`

const rewriteSectionForJobPrompt = `Rewrite this resume section to better match the following job description. Keep the meaning, but optimize for relevance and clarity.

Keep the formatting same as before.

Return ONLY the rewritten section as a single JSON object, with no explanation or extra text.

Job Description:
%s

Section:
%s`

const polishSectionPrompt = `Improve the following resume section for grammar, readability, and standardization. Keep the meaning and formatting the same as before.

Return ONLY the improved section as a single JSON object, with no explanation or extra text.

Section:
%s`

const coverLetterPrompt = `Write a professional cover letter for the following job description, using the provided resume as background. Be concise, highlight relevant experience, and address the employer directly. Return ONLY the cover letter text, with no explanation or extra text.

Job Description:
%s

Resume:
%s`
