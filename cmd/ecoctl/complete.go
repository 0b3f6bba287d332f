package main

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// handleCompletion answers shell completion requests (COMP_LINE) and exits; it
// returns immediately on a normal invocation. Install with:
//
//	COMP_INSTALL=1 ecoctl
func handleCompletion(names []string) {
	flags := map[string]complete.Predictor{
		"addr":  predict.Something,
		"token": predict.Something,
	}

	sub := make(map[string]*complete.Command, len(names))
	for _, n := range names {
		sub[n] = &complete.Command{Args: predict.Something}
	}

	sub["top"] = &complete.Command{Flags: map[string]complete.Predictor{"n": predict.Set{"5", "10", "25", "100"}}}
	sub["reload"] = &complete.Command{Flags: map[string]complete.Predictor{
		"prices":   predict.Nothing,
		"balances": predict.Nothing,
	}}

	cmd := &complete.Command{Sub: sub, Flags: flags}
	cmd.Complete("ecoctl")
}
