package convert

import (
	"fmt"
	"regexp"
	"strings"
)

// Content rewriting turns Claude-dialect references in free-text bodies
// into forms the target dialect understands. Rules run in a fixed order,
// each as one linear pass, and no rule re-matches text it produced itself.

// reservedSlashRoots guards slash-reference flattening against mangling
// real filesystem paths. The list is a heuristic and known-approximate:
// paths outside it (e.g. /users/...) are not protected.
var reservedSlashRoots = map[string]bool{
	"bin": true, "boot": true, "dev": true, "etc": true, "home": true,
	"lib": true, "mnt": true, "opt": true, "proc": true, "root": true,
	"run": true, "sbin": true, "srv": true, "sys": true, "tmp": true,
	"usr": true, "var": true,
}

var (
	delegationRe = regexp.MustCompile(`Task\(\s*([A-Za-z0-9_ -]+?)\s*:\s*"([^"]*)"\s*\)`)
	slashRefRe   = regexp.MustCompile(`/([A-Za-z][\w-]*):([\w:-]+)`)
	homePathRe   = regexp.MustCompile(`~/\.claude($|[^\w-])`)
	projPathRe   = regexp.MustCompile(`\.claude($|[^\w-])`)
	mentionRe    = regexp.MustCompile(`@([a-z][\w-]*-(?:agent|reviewer|expert|specialist|assistant))\b`)
)

type rewriteRule struct {
	re     *regexp.Regexp
	expand func(m []string) string
}

// Rewriter applies a target's ordered rewrite rules to body content.
type Rewriter struct {
	rules []rewriteRule
}

// NewRewriter builds the rule list for a target.
func NewRewriter(t *Target) *Rewriter {
	return &Rewriter{rules: []rewriteRule{
		{
			// Task(agent-name: "payload") -> delegation sentence.
			// The argument text is preserved verbatim.
			re: delegationRe,
			expand: func(m []string) string {
				return fmt.Sprintf("Ask the %s agent to handle: \"%s\"", Normalize(m[1]), m[2])
			},
		},
		{
			// /namespace:name -> /name. The output carries no namespace
			// separator, so the rule cannot re-fire on it.
			re: slashRefRe,
			expand: func(m []string) string {
				if reservedSlashRoots[strings.ToLower(m[1])] {
					return m[0]
				}
				token := m[2]
				if i := strings.LastIndex(token, ":"); i >= 0 {
					token = token[i+1:]
				}
				return "/" + token
			},
		},
		{
			// ~/.claude -> target home directory. Runs before the
			// project-relative rule so the home form is never split.
			re: homePathRe,
			expand: func(m []string) string {
				return t.HomeDir + m[1]
			},
		},
		{
			// .claude -> target project directory. The trailing capture
			// keeps ".claude-plugin" and similar names untouched.
			re: projPathRe,
			expand: func(m []string) string {
				return t.DirName + m[1]
			},
		},
		{
			// @some-reviewer -> natural-language agent reference.
			re: mentionRe,
			expand: func(m []string) string {
				return "the " + m[1] + " agent"
			},
		},
	}}
}

// Rewrite applies every rule to body in order and returns the result.
// Rewriting already-rewritten text is a no-op.
func (r *Rewriter) Rewrite(body string) string {
	for _, rule := range r.rules {
		body = rule.re.ReplaceAllStringFunc(body, func(match string) string {
			return rule.expand(rule.re.FindStringSubmatch(match))
		})
	}
	return body
}
