package compare

import (
	"encoding/json"
)

// JSONFormatter formats comparison results as JSON
type JSONFormatter struct {
	Pretty bool // If true, format with indentation

	// OmitProjections drops the embedded year-by-year projections and keeps
	// only the reduced metrics. Variants carry their full projection by
	// default, which can run to hundreds of records per scenario.
	OmitProjections bool
}

// Format generates JSON output for comparison results
func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	if jf.OmitProjections {
		compSet = jf.stripProjections(compSet)
	}

	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(compSet, "", "  ")
	} else {
		data, err = json.Marshal(compSet)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// stripProjections copies the set without the embedded projections so the
// caller's results stay intact.
func (jf *JSONFormatter) stripProjections(compSet *ComparisonSet) *ComparisonSet {
	out := *compSet

	if compSet.BaseResult != nil {
		base := *compSet.BaseResult
		base.Projection = nil
		out.BaseResult = &base
	}

	out.AlternativeResults = make([]ComparisonResult, len(compSet.AlternativeResults))
	for i, alt := range compSet.AlternativeResults {
		alt.Projection = nil
		out.AlternativeResults[i] = alt
	}

	return &out
}
