// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides shape validators for self-reported vendor
// fields.
//
// These are format checks over free text, not authoritative lookups: a value
// that passes has the right shape, nothing more. Checkers turn failures into
// score penalties, so validators return booleans rather than errors.
package validation

import (
	"net"
	"net/url"
	"regexp"
	"strings"
)

// emailPattern is the loose address shape: something@something.tld with no
// whitespace.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// phonePattern matches a US-style 3-3-4 digit grouping anywhere in the
// value, with optional parentheses and separators.
var phonePattern = regexp.MustCompile(`\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

// einPattern is the IRS employer identification number shape: two digits, an
// optional hyphen, seven digits.
var einPattern = regexp.MustCompile(`^\d{2}-?\d{7}$`)

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// IsValidPhone reports whether s contains a plausible phone number.
func IsValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsValidEIN reports whether s matches the DD-DDDDDDD employer identification
// shape. Embedded whitespace is ignored; the hyphen is optional.
func IsValidEIN(s string) bool {
	return einPattern.MatchString(StripSpaces(s))
}

// IsValidURL reports whether s parses as an absolute URL with a scheme and a
// host.
func IsValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsIPv4Address reports whether host is a bare IPv4 literal.
func IsIPv4Address(host string) bool {
	ip := net.ParseIP(host)
	return ip != nil && ip.To4() != nil
}

// StripSpaces removes all whitespace from s.
func StripSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}
