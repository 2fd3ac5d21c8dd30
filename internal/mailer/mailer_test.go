package mailer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoPress-Admin/GoPress-Admin/internal/db/models"
)

func TestRender(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		variables map[string]string
		expected  string
	}{
		{
			name:      "single placeholder",
			input:     "Hello {{name}}!",
			variables: map[string]string{"name": "Ada"},
			expected:  "Hello Ada!",
		},
		{
			name:      "repeated placeholder",
			input:     "{{name}} and {{name}}",
			variables: map[string]string{"name": "Ada"},
			expected:  "Ada and Ada",
		},
		{
			name:      "multiple placeholders",
			input:     "Hi {{firstName}} {{lastName}}",
			variables: map[string]string{"firstName": "Ada", "lastName": "Lovelace"},
			expected:  "Hi Ada Lovelace",
		},
		{
			name:      "whitespace inside braces",
			input:     "Hello {{ name }}!",
			variables: map[string]string{"name": "Ada"},
			expected:  "Hello Ada!",
		},
		{
			name:      "unknown placeholder stays intact",
			input:     "Hello {{missing}}!",
			variables: map[string]string{"name": "Ada"},
			expected:  "Hello {{missing}}!",
		},
		{
			name:      "no placeholders",
			input:     "Plain text",
			variables: map[string]string{"name": "Ada"},
			expected:  "Plain text",
		},
		{
			name:      "nil variables",
			input:     "Hello {{name}}!",
			variables: nil,
			expected:  "Hello {{name}}!",
		},
		{
			name:      "dotted placeholder name",
			input:     "Site: {{site.name}}",
			variables: map[string]string{"site.name": "GoPress"},
			expected:  "Site: GoPress",
		},
		{
			name:      "single braces untouched",
			input:     "JSON uses {braces}",
			variables: map[string]string{"braces": "x"},
			expected:  "JSON uses {braces}",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Render(tc.input, tc.variables))
		})
	}
}

func TestRenderTemplate(t *testing.T) {
	tmpl := &models.EmailTemplate{
		Name:        "Welcome",
		Slug:        "welcome",
		Subject:     "Welcome to {{siteName}}",
		HTMLContent: "<p>Hi {{username}}, welcome to {{siteName}}.</p>",
		TextContent: "Hi {{username}}, welcome to {{siteName}}.",
	}

	msg := RenderTemplate(tmpl, map[string]string{
		"siteName": "GoPress",
		"username": "ada",
	})

	assert.Equal(t, "Welcome to GoPress", msg.Subject)
	assert.Equal(t, "<p>Hi ada, welcome to GoPress.</p>", msg.HTMLBody)
	assert.Equal(t, "Hi ada, welcome to GoPress.", msg.TextBody)
}
