package validator

import "testing"

func TestValidateCourseCreate(t *testing.T) {
	bv := New()

	tests := []struct {
		name    string
		req     CourseCreateRequest
		wantErr bool
	}{
		{"valid", CourseCreateRequest{Name: "Matemáticas I", Code: "MAT-101"}, false},
		{"missing name", CourseCreateRequest{Code: "MAT-101"}, true},
		{"code with spaces", CourseCreateRequest{Name: "Física", Code: "FIS 101"}, true},
		{"code too short", CourseCreateRequest{Name: "Física", Code: "F"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := bv.ValidateCourseCreate(&tt.req)
			if (len(errs) > 0) != tt.wantErr {
				t.Errorf("got errors %v, wantErr=%v", errs, tt.wantErr)
			}
		})
	}
}

func TestValidateHomeworkCreateDateOrder(t *testing.T) {
	bv := New()

	req := &HomeworkCreateRequest{
		Title:        "Tarea 1",
		StartDate:    "2026-09-10",
		EndDate:      "2026-09-01",
		DeliveryType: "file",
	}

	errs := bv.ValidateHomeworkCreate(req)
	if len(errs) == 0 {
		t.Fatal("expected date order error")
	}
	if errs[0].Rule != "date_order" {
		t.Errorf("expected date_order rule, got %s", errs[0].Rule)
	}

	req.EndDate = "2026-09-20"
	if errs := bv.ValidateHomeworkCreate(req); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}
}

func TestValidateGradeRange(t *testing.T) {
	bv := New()

	if errs := bv.ValidateGrade(&GradeRequest{Score: 85.5}); len(errs) != 0 {
		t.Errorf("expected valid grade, got %v", errs)
	}
	if errs := bv.ValidateGrade(&GradeRequest{Score: 101}); len(errs) == 0 {
		t.Error("expected out-of-range error for score 101")
	}
	if errs := bv.ValidateGrade(&GradeRequest{Score: -1}); len(errs) == 0 {
		t.Error("expected out-of-range error for score -1")
	}
}

func TestRoleUpdateRequest(t *testing.T) {
	bv := New()

	if errs := bv.Validate(&RoleUpdateRequest{Role: "docente"}); len(errs) != 0 {
		t.Errorf("expected docente to be valid, got %v", errs)
	}
	if errs := bv.Validate(&RoleUpdateRequest{Role: "superuser"}); len(errs) == 0 {
		t.Error("expected unknown role to fail")
	}
}
