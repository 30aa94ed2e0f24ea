package services

// PromptVersion identifies the instruction template below in logs.
const PromptVersion = "resume-ats-v2"

const resumeAnalysisTemplate = `You are an expert resume reviewer and ATS (Applicant Tracking System) specialist.

Analyze the resume below and rate how well it would perform when parsed and ranked by an ATS.

Score each of the following from 0 to 100:
1. Keywords - use of role specific keywords and skills that recruiters search for
2. Formatting - structure, section headings and how easily an ATS can parse the layout
3. Experience - clarity of roles, responsibilities and measurable achievements
4. Skills - relevance and presentation of technical and soft skills
5. Education - completeness and presentation of education and certifications

Then give an overall score from 0 to 100, list concrete improvements grouped by priority,
list the strengths of the resume, and write a short summary of 2-3 sentences.

Return your response as a JSON code block in exactly this format:
` + "```json" + `
{
  "score": <integer 0-100>,
  "breakdown": {
    "keywords": <integer 0-100>,
    "formatting": <integer 0-100>,
    "experience": <integer 0-100>,
    "skills": <integer 0-100>,
    "education": <integer 0-100>
  },
  "improvements": {
    "critical": ["<issue that must be fixed>"],
    "important": ["<issue that should be fixed>"],
    "suggested": ["<nice to have change>"]
  },
  "strengths": ["<strength>"],
  "summary": "<short overall summary>"
}
` + "```" + `

Be specific and reference actual content from the resume.

RESUME:
`

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildResumeAnalysisPrompt appends the resume text, unmodified, to the fixed instructions.
func (pb *PromptBuilder) BuildResumeAnalysisPrompt(resumeText string) string {
	return resumeAnalysisTemplate + resumeText
}
