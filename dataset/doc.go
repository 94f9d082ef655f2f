// Package dataset reads and writes the delimited text files gas sensor
// loggers produce and the analysis exports downstream tools expect.
//
// Input files carry the time axis in the first column and one sensor
// channel per further column, with a configurable separator and
// optional scale factors. Channels are named ch1, ch2, ... in file
// order. Lines starting with '#' are treated as comments, which lets
// the exports of this package, preamble included, read back in.
//
// # Usage
//
//	tbl, report, err := dataset.ReadFile("sensor.dat", dataset.ReadOptions{
//	    Separator:  '\t',
//	    TimeFactor: 1000, // log in ms, analyze in s
//	})
//	if err != nil {
//	    // wrong separator, unparseable cell, ...
//	}
//	if report.Capped {
//	    // fewer channels in the file than requested
//	}
//
//	err = dataset.WriteProperties(out, props, dataset.WriteOptions{
//	    Comment: []string{"sample XYZ", "response in %"},
//	})
package dataset
