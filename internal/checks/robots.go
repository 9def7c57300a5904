package checks

import "strings"

// RobotsRules holds the parsed user-agent groups of a robots.txt file.
type RobotsRules struct {
	groups   []robotsGroup
	sitemaps []string
}

type robotsGroup struct {
	agents   []string
	allow    []string
	disallow []string
}

// ParseRobots parses robots.txt content into rule groups. Consecutive
// User-agent lines share the group that the following rules belong to.
func ParseRobots(content string) *RobotsRules {
	rules := &RobotsRules{}
	var current *robotsGroup
	collectingAgents := false

	for _, line := range strings.Split(content, "\n") {
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "user-agent":
			if !collectingAgents {
				rules.groups = append(rules.groups, robotsGroup{})
				current = &rules.groups[len(rules.groups)-1]
				collectingAgents = true
			}
			current.agents = append(current.agents, strings.ToLower(value))
		case "allow":
			if current != nil {
				current.allow = append(current.allow, value)
			}
			collectingAgents = false
		case "disallow":
			if current != nil {
				current.disallow = append(current.disallow, value)
			}
			collectingAgents = false
		case "sitemap":
			rules.sitemaps = append(rules.sitemaps, value)
		default:
			collectingAgents = false
		}
	}

	return rules
}

// Sitemaps returns the Sitemap directives found in the file.
func (r *RobotsRules) Sitemaps() []string {
	return r.sitemaps
}

// Blocked reports whether the agent is barred from the site root. The most
// specific matching group wins over the wildcard group; within a group an
// explicit root Allow overrides a root Disallow.
func (r *RobotsRules) Blocked(agent string) bool {
	group := r.groupFor(strings.ToLower(agent))
	if group == nil {
		return false
	}

	for _, a := range group.allow {
		if a == "/" {
			return false
		}
	}
	for _, d := range group.disallow {
		if d == "/" {
			return true
		}
	}
	return false
}

// groupFor selects the group whose agent token best matches the crawler
// name: the longest token contained in the name, else the * group.
func (r *RobotsRules) groupFor(agent string) *robotsGroup {
	var best *robotsGroup
	bestLen := -1
	var wildcard *robotsGroup

	for i := range r.groups {
		g := &r.groups[i]
		for _, token := range g.agents {
			if token == "*" {
				if wildcard == nil {
					wildcard = g
				}
				continue
			}
			if strings.Contains(agent, token) && len(token) > bestLen {
				best = g
				bestLen = len(token)
			}
		}
	}

	if best != nil {
		return best
	}
	return wildcard
}
