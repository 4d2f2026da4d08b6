package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoleDefault is the access role assumed when the caller supplies none. It
// grants only role-listed and public documents, never ownership.
const RoleDefault = "user"

// Document is the stored metadata row for one uploaded document. Chunk
// splitting and ingestion happen upstream; retrieval only reads these rows.
type Document struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`

	Filename string `gorm:"type:text;not null;default:''" json:"filename"`
	Title    string `gorm:"type:text;not null;default:''" json:"title"`

	Tags         datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"tags"`
	IsPublic     bool           `gorm:"not null;default:false;index" json:"is_public"`
	AllowedRoles datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"allowed_roles"`

	ChunkCount int `gorm:"not null;default:0" json:"chunk_count"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Document) TableName() string { return "document" }

// DocumentChunk is the stored text of one chunk, keyed document-first so the
// filename-scan strategy can pull a document's chunks without the vector index.
type DocumentChunk struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index" json:"document_id"`
	Position   int       `gorm:"not null;default:0;index" json:"position"`
	Content    string    `gorm:"type:text;not null;default:''" json:"content"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (DocumentChunk) TableName() string { return "document_chunk" }

// TagList decodes the jsonb tags column; malformed payloads read as empty.
func (d *Document) TagList() []string {
	return decodeStringList(d.Tags)
}

// RoleList decodes the jsonb allowed_roles column; empty means no role grant.
func (d *Document) RoleList() []string {
	return decodeStringList(d.AllowedRoles)
}

func decodeStringList(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}
