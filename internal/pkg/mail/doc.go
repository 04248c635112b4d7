// Package mail sends email through a provider-agnostic Message and Mail
// contract. SMTP is the only provider; it supports implicit TLS on port 465
// and opportunistic STARTTLS elsewhere.
package mail
