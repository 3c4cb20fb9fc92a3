// Package history records supervisor cycles in a database.
//
// A cycle runs from the subscription sync to the moment both processes are
// shut down again, either for the daily restart or because one of them
// exited. Each cycle is stored as one row in supervisor_cycles, which the
// status API exposes for operators.
//
// Recording is optional. Without a database the supervisor uses Nop.
package history
