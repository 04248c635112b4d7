// Package mfa seals second-factor material with AES-256-GCM so it can travel
// inside client-held tokens without being readable by the client.
package mfa
