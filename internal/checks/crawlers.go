package checks

import (
	"fmt"

	"github.com/scaile/openanalytics/internal/models"
)

// aiCrawlers maps each access check to the user-agent tokens the crawler
// identifies with in robots.txt. Blocking any token blocks the crawler.
var aiCrawlers = []struct {
	check    string
	label    string
	agents   []string
	impact   float64
	severity string
}{
	{"gptbot_access", "GPTBot", []string{"gptbot"}, 8, models.SeverityError},
	{"claude_access", "ClaudeBot", []string{"claudebot", "claude-web", "anthropic-ai"}, 5, models.SeverityError},
	{"perplexitybot_access", "PerplexityBot", []string{"perplexitybot"}, 5, models.SeverityError},
	{"ccbot_access", "CCBot", []string{"ccbot"}, 4, models.SeverityWarning},
}

func crawlerAccess(p *Page, index int) models.CheckResult {
	crawler := aiCrawlers[index]

	if !p.RobotsFound {
		return pass(crawler.check, models.CategoryCrawler,
			fmt.Sprintf("%s allowed (no robots.txt)", crawler.label), crawler.impact)
	}

	for _, agent := range crawler.agents {
		if p.robots.Blocked(agent) {
			return fail(crawler.check, models.CategoryCrawler, crawler.severity,
				fmt.Sprintf("%s blocked by robots.txt", crawler.label),
				fmt.Sprintf("Allow %s in robots.txt; blocked crawlers cannot cite the site", crawler.label),
				crawler.impact)
		}
	}

	return pass(crawler.check, models.CategoryCrawler,
		fmt.Sprintf("%s allowed", crawler.label), crawler.impact)
}

func checkGPTBotAccess(p *Page) models.CheckResult        { return crawlerAccess(p, 0) }
func checkClaudeAccess(p *Page) models.CheckResult        { return crawlerAccess(p, 1) }
func checkPerplexityBotAccess(p *Page) models.CheckResult { return crawlerAccess(p, 2) }
func checkCCBotAccess(p *Page) models.CheckResult         { return crawlerAccess(p, 3) }
