// Package uniuri generates random strings good for use in URIs to identify
// unique objects such as intent tokens and state tokens.
package uniuri
