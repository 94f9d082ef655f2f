// Package plot renders analysis results as PNG charts.
//
// Three chart kinds cover the usual reporting needs: raw channel traces
// over time (Series), measured responses over concentration with the
// fitted power law curves overlaid (ResponseFit), and response or
// recovery times over concentration (CycleTimes). All functions return
// the encoded PNG as a byte slice, ready to write to a file or embed.
//
// # Usage
//
//	png, err := plot.ResponseFit(props, fit, plot.Options{
//	    Title:  "sample XYZ",
//	    XLabel: "concentration (ppm)",
//	})
//	if err != nil {
//	    ...
//	}
//	err = os.WriteFile("fit.png", png, 0o644)
package plot
