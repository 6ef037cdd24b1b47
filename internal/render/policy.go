package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/MarkoPoloResearchLab/sinthia_site/internal/content"
)

// PolicyView is a policy ready for the policy modal.
type PolicyView struct {
	Key     string        `json:"key"`
	Title   string        `json:"title"`
	Content template.HTML `json:"content"`
}

var policyMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Policy converts a policy to its modal view. Markdown content is converted, anything else is trusted markup.
func Policy(key string, policy content.Policy) (PolicyView, error) {
	view := PolicyView{Key: key, Title: policy.Title}
	if policy.Format != content.PolicyFormatMarkdown {
		view.Content = template.HTML(policy.Content)
		return view, nil
	}
	var buffer bytes.Buffer
	if convertErr := policyMarkdown.Convert([]byte(policy.Content), &buffer); convertErr != nil {
		return PolicyView{}, fmt.Errorf("render policy %s: %w", key, convertErr)
	}
	view.Content = template.HTML(buffer.String())
	return view, nil
}
