// Package types defines the part, transform, camera and configuration types
// shared by the configurator packages, together with the standard sentinel
// errors returned by its supporting components (catalog, storage, config).
//
// Vectors are mgl64.Vec3 values throughout. The zero Category means "none".
package types
