// Package planner assembles telescope observation schedules for a single
// night. The primary pass greedily places the highest-scoring candidates
// into the dark-sky window, the gap pass detects leftover idle spans and
// refills them under relaxed constraints, and the state manager applies
// interactive undo/swap edits to the finished plan.
package planner
