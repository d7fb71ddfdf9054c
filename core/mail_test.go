package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesFS(t *testing.T) {
	entries, err := templatesFS.ReadDir(templatesDir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Subset(t, names, []string{"_base.txt", "_base.gohtml", "contact.txt", "contact.gohtml"})
}

func TestEmailMessage_Render(t *testing.T) {
	tests := []struct {
		name     string
		msg      EmailMessage
		wantText []string
		wantHTML bool
		wantErr  bool
	}{
		{
			name: "contact template",
			msg: EmailMessage{
				TemplateName: "contact",
				TemplateData: map[string]string{
					"Name":      "Ada",
					"Email":     "ada@test.test",
					"Subject":   "Lab access",
					"Message":   "Can I book the lab?",
					"Timestamp": "2024-10-16T10:00:00Z",
				},
			},
			wantText: []string{"Ada <ada@test.test>", "Can I book the lab?"},
			wantHTML: true,
		},
		{
			name:     "plain body",
			msg:      EmailMessage{BodyStr: "hello"},
			wantText: []string{"hello"},
		},
		{
			name:    "unknown template",
			msg:     EmailMessage{TemplateName: "missing"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Render("Test Department")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			for _, s := range tt.wantText {
				assert.Contains(t, tt.msg.TextContent, s)
			}
			assert.Equal(t, tt.wantHTML, tt.msg.HTMLContent != "")
		})
	}
}

func TestLoadTemplates_cached(t *testing.T) {
	txt1, html1, err := loadTemplates("contact")
	require.NoError(t, err)
	txt2, html2, err := loadTemplates("contact")
	require.NoError(t, err)
	assert.Same(t, txt1, txt2)
	assert.Same(t, html1, html2)
}
