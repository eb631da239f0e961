package model

import "strings"

// Role is the access level of a user account
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleHOD     Role = "HOD"
	RoleFaculty Role = "FACULTY"
	RoleStudent Role = "STUDENT"
)

// Roles lists every role in privilege order
var Roles = []Role{RoleAdmin, RoleHOD, RoleFaculty, RoleStudent}

// ParseRole normalizes a role string, returning false for unknown roles
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Department is one of the fixed academic departments
type Department string

const (
	DepartmentCSE   Department = "CSE"
	DepartmentECE   Department = "ECE"
	DepartmentME    Department = "ME"
	DepartmentEEE   Department = "EEE"
	DepartmentISE   Department = "ISE"
	DepartmentCIVIL Department = "CIVIL"
	DepartmentAIML  Department = "AIML"
	DepartmentAIDS  Department = "AIDS"
	DepartmentCSBS  Department = "CSBS"
)

// Departments lists every valid department
var Departments = []Department{
	DepartmentCSE, DepartmentECE, DepartmentME, DepartmentEEE, DepartmentISE,
	DepartmentCIVIL, DepartmentAIML, DepartmentAIDS, DepartmentCSBS,
}

// IsValidDepartment reports whether s names a known department
func IsValidDepartment(s string) bool {
	for _, d := range Departments {
		if string(d) == s {
			return true
		}
	}
	return false
}

// EventStatus is the approval state of an event
type EventStatus string

const (
	EventStatusPending  EventStatus = "PENDING"
	EventStatusApproved EventStatus = "APPROVED"
	EventStatusRejected EventStatus = "REJECTED"
)

// IsValidEventStatus reports whether s is a known event status
func IsValidEventStatus(s string) bool {
	switch EventStatus(s) {
	case EventStatusPending, EventStatusApproved, EventStatusRejected:
		return true
	}
	return false
}
