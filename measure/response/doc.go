// Package response computes gas sensor response characteristics for
// exposure/recovery cycles and accumulates them into a properties table.
//
// One cycle is bounded by three time markers: start of exposure, end of
// exposure, and end of recovery. For every channel the calculator reads
// the boundary values r0, rf, and rf2, expresses the response magnitude
// under the configured metric, and locates the 90% threshold crossings:
//
//   - response time: time from the start of exposure until the signal
//     reaches 90% of the exposure change
//   - recovery time: time from the end of exposure until the signal
//     covers 90% of the way back to its end-of-recovery value
//
// Threshold detection is sign-aware, so sensors whose resistance falls
// under gas exposure are handled the same way as rising ones.
//
// # Usage
//
// Calculate a cycle and collect it:
//
//	cycle, err := response.Calculate(table, 25, response.Markers{
//	    StartExposure: 120,
//	    EndExposure:   480,
//	    EndRecovery:   900,
//	}, response.DefaultConfig())
//	if err != nil {
//	    // markers outside the table, invalid configuration, ...
//	}
//
//	props := response.NewTable()
//	_ = props.Append(cycle)
//
// Once several cycles at different concentrations are accumulated, the
// table feeds the power law fitter in measure/powerlaw.
package response
