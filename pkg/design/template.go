package design

// Template is a predefined design starting point: a named bundle of
// field values applied to the record in one mutation. Zero-valued fields
// are skipped, so a template can set just a color scheme or a full
// color/text/image combination.
type Template struct {
	Name     string
	Color    string
	Text     string
	Font     string
	ImageURL string
}

// ApplyTemplate applies tpl as one atomic mutation.
func (s *Store) ApplyTemplate(tpl Template) {
	s.mutate(FieldAll, func(d *Design) bool {
		added := false
		if tpl.Color != "" {
			d.Color = tpl.Color
		}
		if tpl.Text != "" {
			ensureText(d).Content = tpl.Text
		}
		if tpl.Font != "" {
			ensureText(d).Font = tpl.Font
		}
		if tpl.ImageURL != "" {
			added = d.ImageURL == ""
			d.ImageURL = tpl.ImageURL
		}
		return added
	})
}
