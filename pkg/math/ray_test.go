package math

import "testing"

func TestRayIntersectAABB_FromOutside(t *testing.T) {
	r := Ray{Origin: Vec3{0.5, 0.5, -1}, Direction: Vec3{0, 0, 1}}

	tNear, tFar, axis, hit := r.IntersectAABB(UnitCube)
	if !hit {
		t.Fatal("expected hit")
	}
	if tNear != 1 || tFar != 2 {
		t.Errorf("expected t in [1, 2], got [%v, %v]", tNear, tFar)
	}
	if axis != 2 {
		t.Errorf("expected entry through Z slab, got %d", axis)
	}
}

func TestRayIntersectAABB_Inside(t *testing.T) {
	r := Ray{Origin: Vec3{0.5, 0.5, 0.5}, Direction: Vec3{1, 0, 0}}

	tNear, tFar, axis, hit := r.IntersectAABB(UnitCube)
	if !hit {
		t.Fatal("expected hit")
	}
	if tNear >= 0 {
		t.Errorf("expected negative entry for inside origin, got %v", tNear)
	}
	if tFar != 0.5 {
		t.Errorf("expected exit at 0.5, got %v", tFar)
	}
	if axis != -1 {
		t.Errorf("expected axis -1 for inside origin, got %d", axis)
	}
}

func TestRayIntersectAABB_Miss(t *testing.T) {
	tests := []Ray{
		{Origin: Vec3{2, 2, 2}, Direction: Vec3{1, 0, 0}},   // parallel and outside
		{Origin: Vec3{0.5, 0.5, 2}, Direction: Vec3{0, 0, 1}}, // pointing away
		{Origin: Vec3{-1, 2, 0.5}, Direction: Vec3{1, 0.1, 0}},
	}

	for _, r := range tests {
		if _, _, _, hit := r.IntersectAABB(UnitCube); hit {
			t.Errorf("ray %+v should miss the unit cube", r)
		}
	}
}

func TestNewAABB(t *testing.T) {
	box := NewAABB(Vec3{1, 0, 1}, Vec3{0, 1, 0})
	if box != UnitCube {
		t.Errorf("NewAABB did not order corners: %+v", box)
	}
	if !box.Contains(Vec3{0.5, 0.5, 0.5}) || box.Contains(Vec3{1.5, 0.5, 0.5}) {
		t.Error("Contains is wrong")
	}
}
