// Package tags encodes typed classification into a flat tag list.
// Domains, frameworks and applications travel alongside free-form tags
// using the domain:/framework:/application: prefix convention.
package tags

import "strings"

const (
	domainPrefix      = "domain:"
	frameworkPrefix   = "framework:"
	applicationPrefix = "application:"
)

// Decoded is the partitioned form of a flat tag list.
type Decoded struct {
	Base         []string
	Domains      []string
	Frameworks   []string
	Applications []string
}

// Decode partitions a flat tag list by prefix, stripping the prefix
// from classified tags. Tags with no recognized prefix are base tags.
func Decode(flat []string) Decoded {
	var d Decoded
	for _, tag := range flat {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		switch {
		case strings.HasPrefix(tag, domainPrefix):
			d.Domains = append(d.Domains, strings.TrimPrefix(tag, domainPrefix))
		case strings.HasPrefix(tag, frameworkPrefix):
			d.Frameworks = append(d.Frameworks, strings.TrimPrefix(tag, frameworkPrefix))
		case strings.HasPrefix(tag, applicationPrefix):
			d.Applications = append(d.Applications, strings.TrimPrefix(tag, applicationPrefix))
		default:
			d.Base = append(d.Base, tag)
		}
	}
	return d
}

// Encode flattens classified tags back into a single list, in fixed
// order: base, domain, framework, application.
func Encode(base, domains, frameworks, applications []string) []string {
	flat := make([]string, 0, len(base)+len(domains)+len(frameworks)+len(applications))
	for _, t := range base {
		if t = strings.TrimSpace(t); t != "" {
			flat = append(flat, t)
		}
	}
	for _, t := range domains {
		if t = strings.TrimSpace(t); t != "" {
			flat = append(flat, domainPrefix+t)
		}
	}
	for _, t := range frameworks {
		if t = strings.TrimSpace(t); t != "" {
			flat = append(flat, frameworkPrefix+t)
		}
	}
	for _, t := range applications {
		if t = strings.TrimSpace(t); t != "" {
			flat = append(flat, applicationPrefix+t)
		}
	}
	return flat
}

// SplitList splits a comma-separated field into trimmed entries,
// dropping empties.
func SplitList(raw string) []string {
	return split(raw, ",")
}

// SplitLines splits a newline-delimited field, dropping blank lines.
func SplitLines(raw string) []string {
	return split(raw, "\n")
}

func split(raw, sep string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Join is the inverse of SplitList for form rendering.
func Join(list []string) string {
	return strings.Join(list, ", ")
}

// JoinLines is the inverse of SplitLines.
func JoinLines(list []string) string {
	return strings.Join(list, "\n")
}
