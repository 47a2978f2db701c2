package normalize

// Provider payloads disagree on field names; aliases are resolved in
// declaration order, first present key wins.
var (
	titleKeys       = []string{"title", "job_title"}
	companyKeys     = []string{"company", "employer_name", "employer"}
	locationKeys    = []string{"location", "job_city"}
	jobTypeKeys     = []string{"jobType", "job_type", "employment_type"}
	sourceIDKeys    = []string{"id", "job_id", "sourceId"}
	descriptionKeys = []string{"description", "job_description"}
	applyURLKeys    = []string{"applyUrl", "apply_url"}
	sourceURLKeys   = []string{"source_url", "job_apply_link", "redirect_url", "url"}
	experienceKeys  = []string{"experienceLevel", "experience_level"}
	countryKeys     = []string{"country", "job_country"}
	postedAtKeys    = []string{"postedAt", "job_posted_at", "created", "created_at"}
	salaryMinKeys   = []string{"salaryMin", "salary_min"}
	salaryMaxKeys   = []string{"salaryMax", "salary_max"}
	currencyKeys    = []string{"salaryCurrency", "currency"}
	featuredKeys    = []string{"isFeatured", "featured"}
	urgentKeys      = []string{"isUrgent", "urgent"}
)

// jobTypes maps lowercased provider employment types to canonical ones.
var jobTypes = map[string]string{
	"full-time":  "Full-time",
	"fulltime":   "Full-time",
	"full time":  "Full-time",
	"part-time":  "Part-time",
	"parttime":   "Part-time",
	"part time":  "Part-time",
	"contract":   "Contract",
	"contractor": "Contract",
	"temporary":  "Contract",
	"intern":     "Internship",
	"internship": "Internship",
	"freelance":  "Freelance",
	"remote":     "Remote",
	"hybrid":     "Hybrid",
}

// experienceLevels maps lowercased provider seniority labels to canonical bands.
var experienceLevels = map[string]string{
	"entry":          "Entry Level",
	"entry level":    "Entry Level",
	"junior":         "Entry Level",
	"associate":      "Entry Level",
	"mid":            "Mid Level",
	"mid level":      "Mid Level",
	"intermediate":   "Mid Level",
	"senior":         "Senior Level",
	"senior level":   "Senior Level",
	"lead":           "Lead",
	"principal":      "Lead",
	"staff":          "Lead",
	"executive":      "Executive",
	"director":       "Executive",
	"vp":             "Executive",
	"vice president": "Executive",
}

var remoteKeywords = []string{"remote", "work from home", "wfh", "telecommute", "virtual", "distributed"}

var hybridKeywords = []string{"hybrid", "flexible", "part remote", "part-time remote"}

// skillVocabulary is the fixed technical-skill list scanned for in job text.
var skillVocabulary = []string{
	"javascript", "python", "java", "react", "node.js", "angular", "vue", "typescript",
	"sql", "mongodb", "postgresql", "mysql", "aws", "azure", "docker", "kubernetes",
	"git", "agile", "scrum", "api", "rest", "graphql", "microservices", "devops",
	"machine learning", "ai", "data science", "analytics", "tableau", "power bi",
	"salesforce", "marketing", "seo", "sem", "content management", "project management",
}

// sector pairs a name with its keyword list; declaration order breaks ties
// (first sector with any match wins).
type sector struct {
	name     string
	keywords []string
}

var sectors = []sector{
	{"Technology", []string{"software", "tech", "developer", "programmer", "engineer", "it", "computer"}},
	{"Healthcare", []string{"health", "medical", "doctor", "nurse", "pharmacy", "hospital", "clinic"}},
	{"Finance", []string{"finance", "banking", "investment", "accounting", "financial", "trading"}},
	{"Education", []string{"education", "teacher", "professor", "academic", "school", "university"}},
	{"Marketing", []string{"marketing", "advertising", "brand", "digital marketing", "seo", "social media"}},
	{"Sales", []string{"sales", "business development", "account manager", "sales representative"}},
	{"HR", []string{"human resources", "hr", "recruitment", "talent", "people operations"}},
	{"Operations", []string{"operations", "logistics", "supply chain", "manufacturing", "production"}},
	{"Customer Service", []string{"customer service", "support", "call center", "bpo", "customer care"}},
	{"Design", []string{"design", "ui", "ux", "graphic", "creative", "visual", "art"}},
}

// countries maps uppercased free-text country names to 2-letter codes.
var countries = map[string]string{
	"IN":                   "IN",
	"INDIA":                "IN",
	"US":                   "US",
	"USA":                  "US",
	"UNITED STATES":        "US",
	"GB":                   "GB",
	"UK":                   "GB",
	"UNITED KINGDOM":       "GB",
	"AE":                   "AE",
	"UAE":                  "AE",
	"UNITED ARAB EMIRATES": "AE",
	"CA":                   "CA",
	"CANADA":               "CA",
	"AU":                   "AU",
	"AUSTRALIA":            "AU",
	"DE":                   "DE",
	"GERMANY":              "DE",
	"FR":                   "FR",
	"FRANCE":               "FR",
	"SG":                   "SG",
	"SINGAPORE":            "SG",
}

// currencySymbols backs salary display synthesis.
var currencySymbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"GBP": "£",
	"EUR": "€",
	"AED": "د.إ",
	"CAD": "C$",
	"AUD": "A$",
	"SGD": "S$",
}

func currencySymbol(code string) string {
	if s, ok := currencySymbols[code]; ok {
		return s
	}
	return code
}
