package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agropack/artworkflow/backend/model"
)

func TestCatalogActiveStages(t *testing.T) {
	catalog := NewCatalog()

	t.Run("fresh record skips conditional stages", func(t *testing.T) {
		rec := &model.ArtworkRecord{CurrentStage: 1}
		active := catalog.ActiveStages(rec)
		require.Len(t, active, 9)
		for _, s := range active {
			assert.NotEqual(t, 3, s.ID, "drawing stage requires approved MOP")
			assert.NotEqual(t, 4, s.ID, "artwork development requires approved FAICA")
		}
	})

	t.Run("mop approval activates drawing stage", func(t *testing.T) {
		rec := &model.ArtworkRecord{
			CurrentStage: 1,
			CategoryApproval: map[string]model.CategoryDecision{
				CategoryMOP: {Status: model.ApprovalApproved},
			},
		}
		active := catalog.ActiveStages(rec)
		require.Len(t, active, 10)
		assert.Equal(t, 3, active[2].ID)
	})

	t.Run("full sequence with both approvals", func(t *testing.T) {
		rec := &model.ArtworkRecord{
			CurrentStage: 1,
			CategoryApproval: map[string]model.CategoryDecision{
				CategoryMOP:   {Status: model.ApprovalApproved},
				CategoryFAICA: {Status: model.ApprovalApproved},
			},
		}
		active := catalog.ActiveStages(rec)
		require.Len(t, active, 11)
		for i, s := range active {
			assert.Equal(t, i+1, s.ID, "full sequence follows catalogue order")
		}
	})

	t.Run("pending upload does not activate", func(t *testing.T) {
		rec := &model.ArtworkRecord{
			CurrentStage: 1,
			CategoryApproval: map[string]model.CategoryDecision{
				CategoryMOP: {Status: model.ApprovalPending},
			},
		}
		assert.Len(t, catalog.ActiveStages(rec), 9)
	})
}

func TestCatalogStageAt(t *testing.T) {
	catalog := NewCatalog()
	rec := &model.ArtworkRecord{CurrentStage: 1}

	s, ok := catalog.StageAt(rec, 1)
	require.True(t, ok)
	assert.Equal(t, "CIB copy circulate to All Stakeholder", s.Activity)

	_, ok = catalog.StageAt(rec, 0)
	assert.False(t, ok)

	_, ok = catalog.StageAt(rec, 10)
	assert.False(t, ok, "only 9 stages active for a fresh record")
}

func TestVendorSelectionStages(t *testing.T) {
	catalog := NewCatalog()
	rec := &model.ArtworkRecord{CurrentStage: 1}

	var vendorStages []int
	for _, s := range catalog.ActiveStages(rec) {
		if s.VendorSelection {
			vendorStages = append(vendorStages, s.ID)
		}
	}
	assert.Equal(t, []int{8, 9}, vendorStages)
}

func TestLaunchTrackerComplete(t *testing.T) {
	rec := &model.ArtworkRecord{
		BrandName: "AgriShield",
		FGCode:    "FG-1001",
		BOM:       "BOM-7",
		CategoryApproval: map[string]model.CategoryDecision{
			CategoryFAICA: {Status: model.ApprovalPending},
			CategoryMOP:   {Status: model.ApprovalPending},
		},
	}
	assert.True(t, launchTrackerComplete(rec))

	t.Run("missing fg code", func(t *testing.T) {
		r := *rec
		r.FGCode = "  "
		assert.False(t, launchTrackerComplete(&r))
	})

	t.Run("missing mop upload", func(t *testing.T) {
		r := *rec
		r.CategoryApproval = map[string]model.CategoryDecision{
			CategoryFAICA: {Status: model.ApprovalPending},
		}
		assert.False(t, launchTrackerComplete(&r))
	})
}

func TestQualityDocsApproved(t *testing.T) {
	rec := &model.ArtworkRecord{
		CategoryApproval: map[string]model.CategoryDecision{
			CategoryEngineering:   {Status: model.ApprovalApproved},
			CategorySpecification: {Status: model.ApprovalApproved},
		},
	}
	assert.True(t, qualityDocsApproved(rec))

	rec.CategoryApproval[CategorySpecification] = model.CategoryDecision{Status: model.ApprovalRejected}
	assert.False(t, qualityDocsApproved(rec))
}

func TestLookupCategory(t *testing.T) {
	cat, ok := LookupCategory(CategoryFAICA)
	require.True(t, ok)
	assert.Equal(t, "FAICA File Approved", cat.ApprovedLabel())
	assert.Equal(t, "FAICA File Rejected", cat.RejectedLabel())
	assert.Equal(t, "FAICA File Uploaded", cat.UploadedLabel())

	pkg, ok := LookupCategory(CategoryPackagingArtwork)
	require.True(t, ok)
	assert.Equal(t, "Final Packaging Artwork File Approved", pkg.ApprovedLabel())

	_, ok = LookupCategory("Unknown")
	assert.False(t, ok)
}
