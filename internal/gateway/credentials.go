package gateway

import (
	"strings"

	"github.com/aarogyalekha/hospital-portal/internal/session"
)

// Route prefixes that pin a request to one role's credential. Anything
// else is unscoped and falls back to admin-then-doctor.
const (
	adminPrefix  = "/admin"
	doctorPrefix = "/doctor"
)

// SelectCredential resolves which stored credential a request to path
// must carry. The decision depends only on the path prefix, never on
// which component issued the call:
//
//  1. admin-scoped paths use the admin credential only;
//  2. doctor-scoped paths use the doctor credential only;
//  3. unscoped paths prefer the admin credential, then the doctor one.
//
// Scoped paths never receive the wrong role's credential even when both
// are present. Returns false when the request must go out unauthenticated.
func SelectCredential(path string, snap session.Snapshot) (*session.Credential, bool) {
	switch {
	case strings.HasPrefix(path, adminPrefix):
		if snap.Admin != nil {
			return snap.Admin, true
		}
		return nil, false
	case strings.HasPrefix(path, doctorPrefix):
		if snap.Doctor != nil {
			return snap.Doctor, true
		}
		return nil, false
	default:
		if snap.Admin != nil {
			return snap.Admin, true
		}
		if snap.Doctor != nil {
			return snap.Doctor, true
		}
		return nil, false
	}
}
