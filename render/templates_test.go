package render

import (
	"testing"

	"tracediag/config"
)

func TestExpandTemplate(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		want    string
		wantErr bool
	}{
		{"simple text", "simple-text", "simple-text", false},
		{"all values", "{{ .Context }}:{{ .SourceFile }}:{{ .Language }}:{{ .Steps }}:{{ .ID }}", "name_template:bubble sort:c:42:trace-1234", false},
		{"sprig functions", `{{ .SourceFile | title }} {{ add .Steps 1 }}`, "Bubble Sort 43", false},
		{"conditional", `{{ if gt .Steps 10 }}long{{ else }}short{{ end }}`, "long", false},
		{"parse error", "{{ .Steps", "", true},
		{"unknown field", "{{ .Title }}", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := expandTemplate(testValues(), config.OutputNameTemplateFieldName, tt.field)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expandTemplate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("expandTemplate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandTemplate_DoesNotModifyValues(t *testing.T) {
	v := testValues()
	if _, err := expandTemplate(v, config.OutputNameTemplateFieldName, "{{ .Context }}"); err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if v.Context != "" {
		t.Errorf("values were modified: %q", v.Context)
	}
}
