package domain

// HealthPath is the one endpoint that takes no file.
const HealthPath = "/health"

// UploadField is the multipart field name the API expects the file under.
const UploadField = "file"

// DefaultEndpoints lists the API paths offered by the console, in display order.
var DefaultEndpoints = []string{
	"/api/v1/detect/resume",
	"/api/v1/verify/contact",
	"/api/v1/analyze/content",
	"/api/v1/examine/document",
	HealthPath,
}

// DefaultSamples lists the fixture files served under /static/samples.
var DefaultSamples = []string{
	"sample_resume.pdf",
	"sample_resume.docx",
	"sample_resume.txt",
}

// IsHealth reports whether endpoint is the health check path.
func IsHealth(endpoint string) bool {
	return endpoint == HealthPath
}
