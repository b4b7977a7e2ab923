package fetch

import (
	"net/url"
	"strings"
)

// Board is a job board and the selectors that isolate a posting's
// description on its pages. Content selectors are tried in order.
type Board struct {
	Name    string
	hosts   []string
	Content []string
	Noise   []string
}

var (
	Greenhouse = Board{
		Name:    "greenhouse",
		hosts:   []string{"greenhouse.io"},
		Content: []string{".job__description.body", ".job__description", "#content"},
		Noise:   []string{".application--wrapper", ".voluntary-self-id", "#usa_self_id_section", ".post-apply"},
	}
	Lever = Board{
		Name:    "lever",
		hosts:   []string{"lever.co"},
		Content: []string{".posting-description", ".section-wrapper.page-full-width", ".posting-page"},
		Noise:   []string{".posting-apply", ".lever-application-form", ".apply-section"},
	}
	Workday = Board{
		Name:    "workday",
		hosts:   []string{"myworkdayjobs.com", "workday.com"},
		Content: []string{"[data-automation-id='jobPostingDescription']", "[data-automation-id='jobDescription']"},
		Noise:   []string{"[data-automation-id='applyButton']", "[data-automation-id='similarJobs']"},
	}
	Ashby = Board{
		Name:    "ashby",
		hosts:   []string{"ashbyhq.com"},
		Content: []string{"[class*='descriptionText']", "[class*='jobPostingDescription']"},
		Noise:   []string{"[class*='applicationForm']"},
	}
	SmartRecruiters = Board{
		Name:    "smartrecruiters",
		hosts:   []string{"smartrecruiters.com"},
		Content: []string{"[itemprop='description']", ".job-sections"},
		Noise:   []string{".job-apply-buttons"},
	}

	// Generic covers career pages on company domains.
	Generic = Board{
		Name: "generic",
		Content: []string{
			"[itemprop='description']",
			".job-description",
			"#job-description",
			".job__description",
			".posting-description",
			"[data-testid='job-description']",
			"main",
			"article",
		},
		Noise: []string{".apply-button-container", "#application-form", ".application-form", ".eeo-statement", ".similar-jobs"},
	}
)

var knownBoards = []Board{Greenhouse, Lever, Workday, Ashby, SmartRecruiters}

// BoardFor returns the board hosting u, or Generic.
func BoardFor(u *url.URL) Board {
	host := strings.ToLower(u.Hostname())
	for _, b := range knownBoards {
		for _, h := range b.hosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				return b
			}
		}
	}
	return Generic
}
