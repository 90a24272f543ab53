package vanilla

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richTextPolicyOnce sync.Once
	richTextPolicy     *bluemonday.Policy
)

// SanitizeRichText strips markup from operator supplied text down to the UGC
// safe subset. Descriptions and agreement text go through it before being
// emitted unescaped.
func SanitizeRichText(input string) string {
	richTextPolicyOnce.Do(func() {
		policy := bluemonday.UGCPolicy()
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		richTextPolicy = policy
	})
	return richTextPolicy.Sanitize(input)
}
