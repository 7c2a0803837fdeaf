package extract

import (
	"fmt"
	"regexp"
	"strings"
)

// Lexicon bundles the matching vocabulary the field extractors run on: the
// skill terms, the degree patterns that qualify an education line, and the
// noise patterns that disqualify one. It is injected into the Extractor so
// the vocabulary can be tuned or replaced without code changes.
type Lexicon struct {
	Version        string
	Skills         []string
	DegreePatterns []string
	NoisePatterns  []string

	skillRes []*regexp.Regexp
	degreeRe *regexp.Regexp
	noiseRe  *regexp.Regexp
}

// Compile builds the matchers for the configured vocabulary. Skill terms are
// matched case-insensitively as whole words or phrases; word boundaries are
// only asserted where the term itself starts or ends with a word character,
// so terms like "C++" or ".NET" stay matchable.
func (l *Lexicon) Compile() error {
	l.skillRes = make([]*regexp.Regexp, 0, len(l.Skills))
	for i, skill := range l.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return fmt.Errorf("empty skill term at index %d", i)
		}
		re, err := regexp.Compile(wordPattern(skill))
		if err != nil {
			return fmt.Errorf("compiling skill term %q: %w", skill, err)
		}
		l.skillRes = append(l.skillRes, re)
	}

	degree, err := regexp.Compile(`(?i)` + strings.Join(l.DegreePatterns, "|"))
	if err != nil {
		return fmt.Errorf("compiling degree patterns: %w", err)
	}
	l.degreeRe = degree

	noise, err := regexp.Compile(`(?i)` + strings.Join(l.NoisePatterns, "|"))
	if err != nil {
		return fmt.Errorf("compiling noise patterns: %w", err)
	}
	l.noiseRe = noise

	return nil
}

func wordPattern(term string) string {
	quoted := regexp.QuoteMeta(term)
	if isWordByte(term[0]) {
		quoted = `\b` + quoted
	}
	if isWordByte(term[len(term)-1]) {
		quoted += `\b`
	}
	return `(?i)` + quoted
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// DefaultLexicon returns the built-in vocabulary.
func DefaultLexicon() *Lexicon {
	lex := &Lexicon{
		Version:        "2025-08",
		Skills:         defaultSkills,
		DegreePatterns: defaultDegreePatterns,
		NoisePatterns:  defaultNoisePatterns,
	}
	if err := lex.Compile(); err != nil {
		// The built-in vocabulary is static; a compile failure here is a
		// programming error.
		panic(err)
	}
	return lex
}

var defaultDegreePatterns = []string{
	`\b(Bachelor(?:'s)?|Master(?:'s)?|Ph\.?D|MBA|BS|MS|B\.Sc|M\.Sc|B\.E|M\.E|BTech|MTech|Engineering|science)\b`,
}

var defaultNoisePatterns = []string{
	`(developed|worked|created|experience|years|project|python|flask|skills|devops|api|certificate|certified|internship|team|training|graduation)`,
}

var defaultSkills = []string{
	// Languages
	"Python", "Java", "JavaScript", "TypeScript", "Golang", "C++", "C#",
	"Ruby", "PHP", "Swift", "Kotlin", "Scala", "Rust", "Perl", "MATLAB",
	"Objective-C", "Dart", "Groovy", "Haskell", "Elixir", "Clojure", "Lua",
	"Visual Basic", "COBOL", "Fortran", "Bash", "PowerShell", "SQL", "PL/SQL",
	"T-SQL", "HTML", "CSS", "Sass", "Less", "XML", "JSON", "YAML", "GraphQL",

	// Web frameworks and frontend
	"Flask", "Django", "FastAPI", "Spring", "Spring Boot", "Rails",
	"Ruby on Rails", "Laravel", "Symfony", "Express", "Node.js", "React",
	"React Native", "Angular", "Vue", "Vue.js", "Svelte", "Next.js", "Nuxt",
	"jQuery", "Bootstrap", "Tailwind", "Redux", "Webpack", "Vite", "ASP.NET",
	".NET", "Blazor", "Electron", "Flutter",

	// Data and ML
	"Machine Learning", "Deep Learning", "Data Analysis", "Data Science",
	"Data Engineering", "Data Visualization", "Statistics", "NLP",
	"Natural Language Processing", "Computer Vision", "TensorFlow", "PyTorch",
	"Keras", "scikit-learn", "Pandas", "NumPy", "SciPy", "Matplotlib",
	"Seaborn", "Plotly", "Jupyter", "Spark", "PySpark", "Hadoop", "Hive",
	"Kafka", "Airflow", "dbt", "ETL", "Data Warehousing", "Power BI",
	"Tableau", "Looker", "Excel", "A/B Testing", "MLOps", "XGBoost",
	"Recommendation Systems", "Time Series",

	// Databases
	"MySQL", "PostgreSQL", "SQLite", "Oracle", "SQL Server", "MongoDB",
	"Cassandra", "DynamoDB", "Redis", "Memcached", "Elasticsearch", "Neo4j",
	"Snowflake", "BigQuery", "Redshift", "ClickHouse", "MariaDB",

	// Cloud and infrastructure
	"AWS", "Azure", "GCP", "Google Cloud", "EC2", "S3", "Lambda",
	"CloudFormation", "Terraform", "Ansible", "Puppet", "Chef", "Docker",
	"Kubernetes", "Helm", "OpenShift", "Serverless", "Microservices",
	"CI/CD", "Jenkins", "GitLab", "GitHub Actions", "CircleCI", "ArgoCD",
	"Prometheus", "Grafana", "Datadog", "Splunk", "Nginx", "Apache",
	"Linux", "Unix", "Windows Server", "VMware", "Networking", "DNS",
	"Load Balancing", "Site Reliability",

	// Practices and tooling
	"Git", "SVN", "Jira", "Confluence", "Agile", "Scrum", "Kanban", "TDD",
	"BDD", "Unit Testing", "Integration Testing", "Selenium", "Cypress",
	"Playwright", "REST", "REST API", "SOAP", "gRPC", "OAuth", "SAML",
	"Design Patterns", "Object-Oriented Programming", "Functional Programming",
	"Code Review", "Pair Programming", "Debugging", "Performance Tuning",
	"Security", "Penetration Testing", "Cryptography", "Blockchain",

	// Business, HR and soft skills
	"Project Management", "Product Management", "Program Management",
	"Stakeholder Management", "Business Analysis", "Requirements Gathering",
	"Recruiting", "Talent Acquisition", "HRIS", "Onboarding", "Payroll",
	"Performance Management", "Employee Relations", "Compensation",
	"Benefits Administration", "Workday", "SAP", "Salesforce", "CRM", "ERP",
	"Marketing", "SEO", "Content Writing", "Copywriting", "Customer Service",
	"Sales", "Negotiation", "Public Speaking", "Presentation",
	"Communication", "Leadership", "Teamwork", "Problem Solving",
	"Critical Thinking", "Time Management", "Mentoring", "Coaching",
	"Conflict Resolution", "Decision Making", "Adaptability", "Creativity",
	"Attention to Detail", "Collaboration", "Strategic Planning",
	"Budgeting", "Forecasting", "Risk Management", "Vendor Management",
	"Quality Assurance", "Technical Writing", "Documentation", "Research",
	"UX", "UI Design", "Figma", "Photoshop", "Illustrator", "Accessibility",
}
