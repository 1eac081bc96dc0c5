package calibration

const (
	SessionStatusDraft  = "draft"
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"

	AdjustmentStatusPending  = "pending"
	AdjustmentStatusApproved = "approved"
	AdjustmentStatusRejected = "rejected"
	AdjustmentStatusSealed   = "sealed"

	RoleFacilitator = "facilitator"
	RoleReviewer    = "reviewer"
	RoleObserver    = "observer"

	BucketStars   = "STARS"
	BucketHigh    = "HIGH"
	BucketCore    = "CORE"
	BucketRisk    = "RISK"
	BucketNeutral = "NEUTRAL"
)
