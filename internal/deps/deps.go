package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external helper a conversion may rely on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// PDFEngines lists the LaTeX and HTML engines the tool can hand PDF output to.
// None are required; missing engines only limit which presets work.
func PDFEngines() []Requirement {
	return []Requirement{
		{Name: "pdflatex", Command: "pdflatex", Description: "Default LaTeX engine for PDF output", Optional: true},
		{Name: "xelatex", Command: "xelatex", Description: "Unicode LaTeX engine", Optional: true},
		{Name: "tectonic", Command: "tectonic", Description: "Self-contained LaTeX engine", Optional: true},
		{Name: "wkhtmltopdf", Command: "wkhtmltopdf", Description: "HTML-based PDF engine", Optional: true},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			resolved, err := exec.LookPath(cmd)
			if err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
				break
			}
			status.Command = resolved
			status.Available = true
		}
		results = append(results, status)
	}
	return results
}
