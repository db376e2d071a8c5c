package mtypology

import "github.com/fraudmesh/evalengine/pkg/mmodel"

// ApplyWorkflow turns a typology's numeric result into its review flag and,
// when interdiction fires, the workflow to attach to the TypologyResult, per
// spec.md §4.5 step 4c.
func ApplyWorkflow(result float64, wf mmodel.Workflow) (review bool, attached *mmodel.Workflow) {
	review = result >= wf.AlertThreshold

	if wf.InterdictionThreshold != nil && *wf.InterdictionThreshold > 0 && result >= *wf.InterdictionThreshold {
		review = true
		wfCopy := wf

		return review, &wfCopy
	}

	return review, nil
}
