package models

import "gorm.io/gorm"

// Visibility predicates for flag-based soft deletion. Movies, watches and
// groups use gorm.DeletedAt and get their filtering from gorm itself; user
// rows live forever, so every read path that resolves users must apply one
// of these scopes explicitly. Deleted rows must never leak into listings.

// ActiveUsers keeps accounts that are neither deleted nor deactivated.
// This is the predicate for listings and for ownership eligibility.
func ActiveUsers(db *gorm.DB) *gorm.DB {
	return db.Where("users.is_deleted = ? AND users.is_deactivated = ?", false, false)
}

// ExistingUsers keeps accounts that are not permanently deleted. Deactivated
// accounts remain visible here so their owners can log in and reactivate.
func ExistingUsers(db *gorm.DB) *gorm.DB {
	return db.Where("users.is_deleted = ?", false)
}
