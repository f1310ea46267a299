package controllers

import (
	"testing"

	"buildflow-backend/models"
)

func TestLikeEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"material_1_abcdef.pdf", `material\_1\_abcdef.pdf`},
		{"100%.jpg", `100\%.jpg`},
		{`back\slash`, `back\\slash`},
		{"plain.png", "plain.png"},
	}
	for _, tt := range tests {
		if got := likeEscape(tt.in); got != tt.want {
			t.Errorf("likeEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReceiptReferencedMatchesExactName(t *testing.T) {
	db := setupTestDB(t)
	_, material := seedInvoice(t, db)

	// The stored name differs from the generated pattern only where the
	// underscores would sit; an unescaped LIKE treats each underscore in
	// the queried name as a single-character wildcard and matches it.
	stored := "materialX" + itoa(material.ID) + "Xabcdef123456.pdf"
	if err := db.Model(&models.MaterialComponent{}).
		Where("id = ?", material.ID).
		Update("receipt_files", stored).Error; err != nil {
		t.Fatalf("attach receipt name: %v", err)
	}

	referenced, err := receiptReferenced(stored)
	if err != nil {
		t.Fatalf("check stored name: %v", err)
	}
	if !referenced {
		t.Errorf("stored name %q not reported as referenced", stored)
	}

	queried := "material_" + itoa(material.ID) + "_abcdef123456.pdf"
	referenced, err = receiptReferenced(queried)
	if err != nil {
		t.Fatalf("check wildcard name: %v", err)
	}
	if referenced {
		t.Errorf("name %q reported as referenced, only %q is stored", queried, stored)
	}
}
