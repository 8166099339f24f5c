// Package calc provides the line calculator running on a byte link.
package calc

// A line cycle is: prompt, read one line into a fixed-capacity buffer,
// parse "NUMBER OPERATOR NUMBER" in a single pass, evaluate, and write
// either "RESULT: <n>" or "ERROR" back on the same link.
//
// Nothing is allocated per cycle on the hot path: the line buffer is a
// fixed array reused across cycles and cleared at the end of each one.
// Malformed input never escapes the cycle. Conditions the platform can't
// recover from are routed to a FaultHandler which reports and halts.
