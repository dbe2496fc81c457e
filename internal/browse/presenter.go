package browse

// Presenter is the surface the controller renders through. The controller never touches
// anything visual; it only calls these methods, in order, during a single event.
type Presenter interface {
	// ClearList removes every rendered preview.
	ClearList()
	// RenderBatch appends previews to the list.
	RenderBatch(batch []Preview)
	// RenderNoResults shows the empty-result message in place of the list.
	RenderNoResults(message string)
	// SetShowMoreLabel updates the remaining count shown on the show-more control.
	SetShowMoreLabel(remaining int)
	// SetShowMoreEnabled toggles the show-more control.
	SetShowMoreEnabled(enabled bool)
	// ShowDetail opens the detail view for one book.
	ShowDetail(detail Detail)
}

// NopPresenter discards everything.
type NopPresenter struct{}

func (NopPresenter) ClearList()              {}
func (NopPresenter) RenderBatch([]Preview)   {}
func (NopPresenter) RenderNoResults(string)  {}
func (NopPresenter) SetShowMoreLabel(int)    {}
func (NopPresenter) SetShowMoreEnabled(bool) {}
func (NopPresenter) ShowDetail(Detail)       {}
