package content

// Question is one entry in the static onboarding catalog.
type Question struct {
	Key     string   `json:"key"`
	Prompt  string   `json:"prompt"`
	QType   string   `json:"qtype"`
	Options []string `json:"options"`
}

// OnboardingQuestions is the fixed seven-step onboarding catalog. Keys that
// match a business profile field are copied onto the profile when answered.
var OnboardingQuestions = []Question{
	{
		Key:     "industry",
		Prompt:  "What industry is your business in?",
		QType:   "text",
		Options: []string{},
	},
	{
		Key:     "objective",
		Prompt:  "What is your main marketing objective right now?",
		QType:   "choice",
		Options: []string{"awareness", "leads", "sales", "retention"},
	},
	{
		Key:     "brand_tone",
		Prompt:  "How should your brand sound?",
		QType:   "choice",
		Options: []string{"calm", "bold", "playful", "premium"},
	},
	{
		Key:     "resources_status",
		Prompt:  "What marketing assets do you already have?",
		QType:   "choice",
		Options: []string{"nothing", "logo only", "logo and photos", "full kit"},
	},
	{
		Key:     "product_description",
		Prompt:  "Describe your main product or service in one sentence.",
		QType:   "text",
		Options: []string{},
	},
	{
		Key:     "target_audience",
		Prompt:  "Who is your ideal customer?",
		QType:   "text",
		Options: []string{},
	},
	{
		Key:     "budget_range",
		Prompt:  "What monthly budget can you commit to marketing?",
		QType:   "choice",
		Options: []string{"under 300", "300-800", "over 800"},
	},
}
