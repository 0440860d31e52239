// Package cache persists HOTP verifier state between invocations.
//
// A verifier must remember, per peer, the highest counter it has accepted
// and the replay-rejection history for recent counters (see
// hotp.SlidingWindow). A [CounterCache] holds that state for any number of
// peers and can be exported to and re-imported from a JSON file, so
// short-lived processes such as the CLI tools resume exactly where they left
// off instead of re-accepting old codes.
//
// The cache contains no key material, but its counter state is
// integrity-sensitive: a third party able to rewind it makes previously used
// codes valid again. Exported files should be access-controlled accordingly.
package cache
