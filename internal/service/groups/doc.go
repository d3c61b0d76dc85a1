// Package groups turns a resolution report into flat environment-style
// lines so a CI workflow can fan out one publish job per format group.
package groups
