// Package process manages process groups for the external tools the
// converter drives, so a canceled run leaves no orphaned children.
package process
