package provider

// apiResponse mirrors the provider's JSON envelope. Fields are pointers
// where their absence signals a stale session rather than an empty value.
type apiResponse struct {
	Status    int           `json:"status"`
	Translate *apiTranslate `json:"translate"`
	Dict      *apiDict      `json:"dict"`
	Suggest   []apiSuggest  `json:"suggest"`
}

type apiTranslate struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Text     string `json:"text"`
	Result   string `json:"result"`
	Phonetic string `json:"phonetic"`
}

type apiDict struct {
	Entries  []apiDictEntry `json:"entries"`
	Examples []apiExample   `json:"examples"`
}

type apiDictEntry struct {
	Pos   string   `json:"pos"`
	Terms []string `json:"terms"`
}

type apiExample struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

type apiSuggest struct {
	Text string `json:"text"`
}

// complete reports whether the response carries the fields a live session
// produces. Responses from expired sessions come back structurally valid
// but without the translate block or its result.
func (r *apiResponse) complete() bool {
	return r.Translate != nil && r.Translate.Result != ""
}

// ExamplePair is one bilingual example sentence.
type ExamplePair struct {
	Source string
	Target string
}

// Definition is one part-of-speech entry with its meanings.
type Definition struct {
	Pos   string
	Terms []string
}

// Result is the normalized translation result. Original and Meaning are
// always set; everything else is optional.
type Result struct {
	Original    string
	Meaning     string
	Phonetic    string
	Examples    []ExamplePair
	Definitions []Definition
	Suggestions []string
	SourceTag   string // canonical tag of the (possibly detected) source
	TargetTag   string
}

// normalize reshapes a complete provider response into a Result.
// requestText fills Original when the provider omits the echoed text.
func (r *apiResponse) normalize(requestText, sourceTag, targetTag string) *Result {
	out := &Result{
		Original:  r.Translate.Text,
		Meaning:   r.Translate.Result,
		Phonetic:  r.Translate.Phonetic,
		SourceTag: sourceTag,
		TargetTag: targetTag,
	}
	if out.Original == "" {
		out.Original = requestText
	}

	if r.Dict != nil {
		for _, e := range r.Dict.Entries {
			if len(e.Terms) == 0 {
				continue
			}
			out.Definitions = append(out.Definitions, Definition{
				Pos:   e.Pos,
				Terms: e.Terms,
			})
		}
		for _, ex := range r.Dict.Examples {
			if ex.Source == "" && ex.Target == "" {
				continue
			}
			out.Examples = append(out.Examples, ExamplePair{
				Source: ex.Source,
				Target: ex.Target,
			})
		}
	}

	for _, s := range r.Suggest {
		if s.Text != "" {
			out.Suggestions = append(out.Suggestions, s.Text)
		}
	}

	return out
}
