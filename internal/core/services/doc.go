// Package services implements the use cases behind the driving ports.
package services
