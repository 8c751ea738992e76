package models

import "testing"

func TestSEOFillDerivedFields(t *testing.T) {
	tests := []struct {
		name             string
		seo              SEO
		wantOGTitle      string
		wantTwitterTitle string
		wantOGDesc       string
	}{
		{
			name:             "empty derived fields are filled",
			seo:              SEO{MetaTitle: "Language Services", MetaDescription: "Professional translation"},
			wantOGTitle:      "Language Services",
			wantTwitterTitle: "Language Services",
			wantOGDesc:       "Professional translation",
		},
		{
			name:             "existing values are preserved",
			seo:              SEO{MetaTitle: "Language Services", MetaDescription: "Professional translation", OGTitle: "Custom OG", TwitterTitle: "Custom Twitter"},
			wantOGTitle:      "Custom OG",
			wantTwitterTitle: "Custom Twitter",
			wantOGDesc:       "Professional translation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.seo.FillDerivedFields()
			if tt.seo.OGTitle != tt.wantOGTitle {
				t.Errorf("OGTitle = %q, want %q", tt.seo.OGTitle, tt.wantOGTitle)
			}
			if tt.seo.TwitterTitle != tt.wantTwitterTitle {
				t.Errorf("TwitterTitle = %q, want %q", tt.seo.TwitterTitle, tt.wantTwitterTitle)
			}
			if tt.seo.OGDescription != tt.wantOGDesc {
				t.Errorf("OGDescription = %q, want %q", tt.seo.OGDescription, tt.wantOGDesc)
			}
		})
	}
}
