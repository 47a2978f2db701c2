package classify

// Category is one entry in the classification taxonomy.
type Category struct {
	ID       string
	Name     string
	Keywords []string
	Weight   float64
}

// GeneralCategory is the fallback when nothing else scores above zero.
const GeneralCategory = "General"

// defaultCategories is the built-in taxonomy. General carries a reduced
// weight so any specific category beats it on equal matches.
func defaultCategories() []Category {
	return []Category{
		{
			ID:   "technology",
			Name: "Technology",
			Keywords: []string{
				"software", "developer", "programmer", "engineer", "tech", "it", "computer",
				"frontend", "backend", "full stack", "mobile", "web", "application", "system",
				"database", "cloud", "devops", "data", "analytics", "machine learning", "ai",
				"javascript", "python", "java", "react", "node", "angular", "vue", "typescript",
				"sql", "mongodb", "postgresql", "aws", "azure", "docker", "kubernetes",
			},
			Weight: 1.0,
		},
		{
			ID:   "healthcare",
			Name: "Healthcare",
			Keywords: []string{
				"health", "medical", "doctor", "nurse", "nursing", "physician", "healthcare",
				"hospital", "clinic", "pharmacy", "pharmacist", "therapy", "therapist",
				"patient", "care", "treatment", "diagnosis", "medicine", "clinical",
			},
			Weight: 1.0,
		},
		{
			ID:   "finance",
			Name: "Finance",
			Keywords: []string{
				"finance", "financial", "banking", "bank", "investment", "accounting",
				"accountant", "trading", "portfolio", "insurance", "credit", "loan",
				"audit", "tax", "treasury", "risk", "compliance", "fintech",
			},
			Weight: 1.0,
		},
		{
			ID:   "education",
			Name: "Education",
			Keywords: []string{
				"education", "teacher", "teaching", "professor", "instructor", "academic",
				"school", "university", "college", "student", "learning", "curriculum",
				"training", "tutor", "mentor", "educational", "pedagogy",
			},
			Weight: 1.0,
		},
		{
			ID:   "marketing",
			Name: "Marketing",
			Keywords: []string{
				"marketing", "advertising", "brand", "promotion", "campaign", "digital marketing",
				"content", "social media", "seo", "sem", "ppc", "email marketing",
				"public relations", "pr", "communications", "creative", "design",
			},
			Weight: 1.0,
		},
		{
			ID:   "sales",
			Name: "Sales",
			Keywords: []string{
				"sales", "selling", "business development", "account manager", "sales representative",
				"inside sales", "outside sales", "field sales", "retail", "wholesale",
				"customer acquisition", "lead generation", "bdr", "sdr",
			},
			Weight: 1.0,
		},
		{
			ID:   "hr",
			Name: "Human Resources",
			Keywords: []string{
				"human resources", "hr", "recruitment", "recruiter", "talent", "hiring",
				"people operations", "employee relations", "compensation", "benefits",
				"training", "development", "onboarding", "performance",
			},
			Weight: 1.0,
		},
		{
			ID:   "operations",
			Name: "Operations",
			Keywords: []string{
				"operations", "operational", "logistics", "supply chain", "manufacturing",
				"production", "quality", "process", "efficiency", "optimization",
				"warehouse", "inventory", "procurement", "vendor", "supplier",
			},
			Weight: 1.0,
		},
		{
			ID:   "customer_service",
			Name: "Customer Service",
			Keywords: []string{
				"customer service", "customer support", "support", "help desk", "call center",
				"bpo", "customer care", "client service", "technical support", "chat support",
				"phone support", "email support", "troubleshooting",
			},
			Weight: 1.0,
		},
		{
			ID:   "design",
			Name: "Design",
			Keywords: []string{
				"design", "designer", "ui", "ux", "user interface", "user experience",
				"graphic", "visual", "creative", "art", "illustration", "branding",
				"web design", "mobile design", "product design", "interaction design",
			},
			Weight: 1.0,
		},
		{
			ID:   "consulting",
			Name: "Consulting",
			Keywords: []string{
				"consulting", "consultant", "advisory", "strategy", "management consulting",
				"business consulting", "it consulting", "financial consulting", "analyst",
				"advisor", "expert", "specialist", "professional services",
			},
			Weight: 1.0,
		},
		{
			ID:   "retail",
			Name: "Retail",
			Keywords: []string{
				"retail", "store", "shop", "sales associate", "cashier", "merchandise",
				"inventory", "customer service", "floor", "manager", "supervisor",
				"e-commerce", "online retail", "fashion", "apparel",
			},
			Weight: 1.0,
		},
		{
			ID:   "hospitality",
			Name: "Hospitality",
			Keywords: []string{
				"hospitality", "hotel", "restaurant", "food service", "catering",
				"tourism", "travel", "guest service", "front desk", "housekeeping",
				"chef", "cook", "server", "waiter", "bartender",
			},
			Weight: 1.0,
		},
		{
			ID:   "legal",
			Name: "Legal",
			Keywords: []string{
				"legal", "law", "lawyer", "attorney", "paralegal", "legal assistant",
				"compliance", "regulatory", "litigation", "contract", "corporate law",
				"criminal law", "family law", "immigration law",
			},
			Weight: 1.0,
		},
		{
			ID:   "general",
			Name: GeneralCategory,
			Keywords: []string{
				"administrative", "admin", "assistant", "coordinator", "manager",
				"supervisor", "director", "executive", "office", "clerk", "receptionist",
			},
			Weight: 0.5,
		},
	}
}

// subcategoryRule names a subcategory and the terms that trigger it.
type subcategoryRule struct {
	name  string
	terms []string
}

// subcategoryRules breaks the broad categories into finer labels.
var subcategoryRules = map[string][]subcategoryRule{
	"Technology": {
		{"Frontend Development", []string{"frontend", "ui", "react"}},
		{"Backend Development", []string{"backend", "api", "server"}},
		{"Full Stack Development", []string{"full stack", "fullstack"}},
		{"Mobile Development", []string{"mobile", "ios", "android"}},
		{"DevOps", []string{"devops", "deployment", "ci/cd"}},
		{"Data Science", []string{"data", "analytics", "machine learning"}},
	},
	"Healthcare": {
		{"Nursing", []string{"nurse", "nursing"}},
		{"Medical Practice", []string{"doctor", "physician"}},
		{"Pharmacy", []string{"pharmacy", "pharmacist"}},
		{"Therapy", []string{"therapy", "therapist"}},
	},
	"Finance": {
		{"Accounting", []string{"accounting", "accountant"}},
		{"Banking", []string{"banking", "bank"}},
		{"Investment", []string{"investment", "portfolio"}},
		{"Insurance", []string{"insurance"}},
	},
	"Marketing": {
		{"Digital Marketing", []string{"digital", "online"}},
		{"Content Marketing", []string{"content", "writing"}},
		{"Social Media Marketing", []string{"social media", "social"}},
		{"SEO", []string{"seo", "search engine"}},
	},
	"Sales": {
		{"Inside Sales", []string{"inside sales", "telephone"}},
		{"Outside Sales", []string{"outside sales", "field sales"}},
		{"Business Development", []string{"business development", "bdr"}},
	},
	"Customer Service": {
		{"Call Center", []string{"call center", "phone"}},
		{"Online Support", []string{"chat", "email"}},
		{"Technical Support", []string{"technical support", "tech support"}},
	},
}
