// Package plan turns manifest records into steps for one platform.
//
// Resolve merges a package's record-level fields with the first platform
// sub-record that matches the platform's candidates (ID, then ID_LIKE, then
// "linux"). Build applies the tag selector and explicit package arguments,
// pulls in "after" dependencies and keeps the manifest's dependency order.
package plan
