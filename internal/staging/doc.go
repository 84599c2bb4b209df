// Package staging sweeps temp outputs that an interrupted run could not
// remove (a killed process never reaches its cleanup path).
package staging
