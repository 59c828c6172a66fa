/*
Package simrt provides the runtime support needed to run generated hardware
simulators: register arrays with stamped write commits, per-module event
queues, and a fixed-step scheduler that drives the whole design.

A simulator is assembled from modules. Each module owns an event queue of
simulated-time stamps; the scheduler runs a module whenever its front event
has come due and consumes the event only if the module reports success, so
a stalled module is retried on every following tick until it makes
progress. Register arrays buffer writes until the scheduler advances
simulated time past their commit stamp, which gives all modules of a tick
a consistent pre-tick view of the registers.

The trace sub-package renders runs in the text format emitted by generated
simulators and can also record them into a SQLite database. The simlib
sub-package holds ready-made modules, and simtest helps testing module
implementations against each other.
*/
package simrt
