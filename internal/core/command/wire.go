package command

import "encoding/json"

// wire is the research log record; field names are shared with the log service
type wire struct {
	ID          string           `json:"id"`
	Type        Kind             `json:"type"`
	Location    Location         `json:"location"`
	Trigger     Trigger          `json:"trigger"`
	Text        *string          `json:"text,omitempty"`
	Slug        string           `json:"slug,omitempty"`
	IssueNumber int              `json:"issueNumber,omitempty"`
	Predictions []wirePrediction `json:"predictions,omitempty"`
	IsToxic     *bool            `json:"isToxic,omitempty"`
	Intervene   *bool            `json:"shouldIntervene,omitempty"`
	SurveyURL   *string          `json:"toxicitySurveyUrl,omitempty"`
	Context     wireContext      `json:"context"`
}

// wirePrediction keeps the label/results shape the log service already stores
type wirePrediction struct {
	Label   string       `json:"label"`
	Results []wireResult `json:"results"`
}

type wireResult struct {
	Probabilities [2]float64 `json:"probabilities"`
	Match         bool       `json:"match"`
}

type wireContext struct {
	EventName  string          `json:"event_name"`
	Action     string          `json:"action,omitempty"`
	DeliveryID string          `json:"delivery_id,omitempty"`
	CommentID  *int64          `json:"comment_id,omitempty"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// MarshalJSON renders the log record
func (c Command) MarshalJSON() ([]byte, error) {
	w := wire{
		ID:       c.ID.String(),
		Type:     c.Kind,
		Location: c.Location,
		Trigger:  c.Trigger,
		Context: wireContext{
			EventName:  c.Source.EventName,
			Action:     c.Source.Action,
			DeliveryID: c.Source.DeliveryID,
			CommentID:  c.Source.CommentID.ToPointer(),
		},
	}
	if len(c.Source.Raw) > 0 && json.Valid(c.Source.Raw) {
		w.Context.Payload = c.Source.Raw
	}

	if t := c.Toxicity; c.IsToxicity() {
		w.Text = &t.Text
		w.Slug = t.Slug
		w.IssueNumber = t.Number
		if t.Evaluated {
			w.IsToxic = &t.IsToxic
			w.Intervene = &t.ShouldIntervene
			w.SurveyURL = t.SurveyURL.ToPointer()
			w.Predictions = make([]wirePrediction, 0, len(t.Predictions))
			for _, p := range t.Predictions {
				w.Predictions = append(w.Predictions, wirePrediction{
					Label:   p.Category,
					Results: []wireResult{{Probabilities: [2]float64{1 - p.Score, p.Score}, Match: p.Match}},
				})
			}
		}
	}
	return json.Marshal(w)
}
