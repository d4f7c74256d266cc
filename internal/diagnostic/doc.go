// Package diagnostic collects structured errors, warnings and infos produced
// while validating schema files and struct tags, with "did you mean"
// suggestions for unknown names.
package diagnostic
