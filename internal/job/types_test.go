package job

import (
	"path/filepath"
	"strings"
	"testing"
)

func validSpec(t *testing.T) *Spec {
	t.Helper()
	return &Spec{
		SourceDir:    t.TempDir(),
		OutputParent: t.TempDir(),
		BaseName:     "Shoot",
	}
}

func TestParseOriginalsAction(t *testing.T) {
	cases := []struct {
		in      string
		want    OriginalsAction
		wantErr bool
	}{
		{"copy", OriginalsCopy, false},
		{"Move", OriginalsMove, false},
		{" leave ", OriginalsLeave, false},
		{"skip", OriginalsSkipExport, false},
		{"none", OriginalsSkipExport, false},
		{"shred", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseOriginalsAction(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseOriginalsAction(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOriginalsAction(%q): %v", tc.in, err)
		} else if got != tc.want {
			t.Errorf("ParseOriginalsAction(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseMetadataPolicy(t *testing.T) {
	cases := []struct {
		in      string
		want    MetadataPolicy
		wantErr bool
	}{
		{"keep", MetadataKeep, false},
		{"strip_all", MetadataStripAll, false},
		{"strip-all", MetadataStripAll, false},
		{"strip", MetadataStripAll, false},
		{"date", MetadataStripDate, false},
		{"camera", MetadataStripCamera, false},
		{"both", MetadataStripDateAndCamera, false},
		{"gps", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseMetadataPolicy(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseMetadataPolicy(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseMetadataPolicy(%q): %v", tc.in, err)
		} else if got != tc.want {
			t.Errorf("ParseMetadataPolicy(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestPolicyFamilies(t *testing.T) {
	if !MetadataStripDate.StripsDate() || MetadataStripDate.StripsCamera() {
		t.Error("StripDate should strip dates only")
	}
	if !MetadataStripCamera.StripsCamera() || MetadataStripCamera.StripsDate() {
		t.Error("StripCamera should strip camera tags only")
	}
	if !MetadataStripDateAndCamera.StripsDate() || !MetadataStripDateAndCamera.StripsCamera() {
		t.Error("StripDateAndCamera should strip both families")
	}
	if MetadataKeep.StripsDate() || MetadataKeep.StripsCamera() {
		t.Error("Keep should strip nothing")
	}
}

func TestValidateDefaults(t *testing.T) {
	s := validSpec(t)
	s.BaseName = ""

	if err := s.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if s.BaseName != filepath.Base(s.SourceDir) {
		t.Errorf("BaseName = %q, want source dir name", s.BaseName)
	}
	if len(s.Categories) != 4 {
		t.Fatalf("len(Categories) = %d, want 4 defaults", len(s.Categories))
	}
	for _, cs := range s.Categories {
		if cs.MinQuality != DefaultMinQuality {
			t.Errorf("%s MinQuality = %d", cs.Category, cs.MinQuality)
		}
		if cs.Category.Compressed() && cs.TargetPixels != DefaultCompressedTargetPixels {
			t.Errorf("%s TargetPixels = %d", cs.Category, cs.TargetPixels)
		}
	}
	if s.Layout.Originals != "Export Originals" || s.Layout.LogFile == "" {
		t.Errorf("layout defaults not applied: %+v", s.Layout)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Spec)
	}{
		{"empty source", func(s *Spec) { s.SourceDir = " " }},
		{"empty output", func(s *Spec) { s.OutputParent = "" }},
		{"base name with separator", func(s *Spec) { s.BaseName = "a/b" }},
		{"negative workers", func(s *Spec) { s.Workers = -1 }},
		{"raw skip action", func(s *Spec) { s.RawAction = OriginalsSkipExport }},
		{"original in category list", func(s *Spec) {
			s.Categories = []CategorySpec{{Category: CategoryOriginal, Quality: 90}}
		}},
		{"quality out of range", func(s *Spec) {
			s.Categories = []CategorySpec{{Category: CategoryOptimizedJPEG, Quality: 101}}
		}},
		{"min above quality", func(s *Spec) {
			s.Categories = []CategorySpec{{Category: CategoryOptimizedJPEG, Quality: 60, MinQuality: 70}}
		}},
		{"optimized with pixel target", func(s *Spec) {
			s.Categories = []CategorySpec{{Category: CategoryOptimizedJPEG, Quality: 90, TargetPixels: 1000}}
		}},
		{"negative byte ceiling", func(s *Spec) {
			s.Categories = []CategorySpec{{Category: CategoryCompressedJPEG, Quality: 60, MaxFileBytes: -1}}
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := validSpec(t)
			tc.mutate(s)
			if err := s.Validate(); err == nil {
				t.Error("Validate accepted an invalid spec")
			}
		})
	}
}

func TestOutputRoot(t *testing.T) {
	s := &Spec{OutputParent: "/deliveries", BaseName: "Shoot"}
	if got := s.OutputRoot(); got != filepath.Join("/deliveries", "Shoot") {
		t.Errorf("OutputRoot = %q", got)
	}
}

func TestCategoryEnabled(t *testing.T) {
	s := validSpec(t)
	s.Categories = []CategorySpec{{Category: CategoryOptimizedJPEG, Quality: 90}}
	if err := s.Validate(); err != nil {
		t.Fatal(err)
	}
	if !s.CategoryEnabled(CategoryOptimizedJPEG) {
		t.Error("enabled category reported disabled")
	}
	if s.CategoryEnabled(CategoryCompressedWebP) {
		t.Error("disabled category reported enabled")
	}
}

func TestStringNames(t *testing.T) {
	if CategoryCompressedWebP.String() != "compressed-webp" {
		t.Errorf("Category.String() = %q", CategoryCompressedWebP.String())
	}
	if FormatWebP.Ext() != ".webp" || FormatJPEG.Ext() != ".jpg" {
		t.Error("Format.Ext mismatch")
	}
	if !strings.Contains(OriginalsMove.String(), "move") {
		t.Errorf("OriginalsAction.String() = %q", OriginalsMove.String())
	}
	if MetadataStripDateAndCamera.String() != "both" {
		t.Errorf("MetadataPolicy.String() = %q", MetadataStripDateAndCamera.String())
	}
}
