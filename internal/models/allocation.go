package models

import (
	"fmt"
	"sort"
	"time"
)

// RangesOverlap tests two half-open date ranges [aStart, aEnd) and
// [bStart, bEnd). The checkout day itself is not occupied, so back-to-back
// stays on the same accommodation do not conflict.
func RangesOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// AllocationDecider decides a pending request against a consistent snapshot.
type AllocationDecider func(req *AccommodationRequest, candidates []Accommodation, approved []AccommodationRequest) AllocationDecision

// AllocationDecision is the outcome of deciding a pending request.
type AllocationDecision struct {
	Approved        bool
	AccommodationID int64
	Note            string
}

// DecideAllocation picks an accommodation for a pending request from a
// consistent snapshot of candidates and currently approved requests.
//
// A candidate must hold the whole group (capacity >= people), must not be
// Unavailable, and must have no other approved request whose date range
// overlaps the requested one. An accommodation is booked exclusively per
// overlapping window; headcounts of distinct requests are never pooled.
// Among the survivors the smallest capacity wins, ties going to the lowest
// id, so reruns over the same snapshot always decide the same way.
func DecideAllocation(req *AccommodationRequest, candidates []Accommodation, approved []AccommodationRequest) AllocationDecision {
	eligible := make([]Accommodation, 0, len(candidates))
	for _, acc := range candidates {
		if acc.Capacity < req.NumberOfPeople || acc.Availability == AccommodationUnavailable {
			continue
		}
		if hasOverlappingOccupant(acc.ID, req, approved) {
			continue
		}
		eligible = append(eligible, acc)
	}

	if len(eligible) == 0 {
		return AllocationDecision{
			Approved: false,
			Note:     "no suitable accommodation available for the requested dates and group size",
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		if eligible[i].Capacity != eligible[j].Capacity {
			return eligible[i].Capacity < eligible[j].Capacity
		}
		return eligible[i].ID < eligible[j].ID
	})

	best := eligible[0]
	return AllocationDecision{
		Approved:        true,
		AccommodationID: best.ID,
		Note: fmt.Sprintf("assigned %s (capacity %d) for %s to %s",
			best.Name, best.Capacity,
			req.CheckIn.Format("2006-01-02"), req.CheckOut.Format("2006-01-02")),
	}
}

func hasOverlappingOccupant(accommodationID int64, req *AccommodationRequest, approved []AccommodationRequest) bool {
	for _, other := range approved {
		if other.ID == req.ID || other.Status != RequestApproved {
			continue
		}
		if other.AssignedAccommodationID == nil || *other.AssignedAccommodationID != accommodationID {
			continue
		}
		if RangesOverlap(req.CheckIn, req.CheckOut, other.CheckIn, other.CheckOut) {
			return true
		}
	}
	return false
}
