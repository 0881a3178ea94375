// Package provision clones the ledger template for new users and grants them
// access to their copy.
package provision

import (
	"context"
	"fmt"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// Provisioner creates a ledger document for a new user.
type Provisioner interface {
	// CloneLedger copies the template, grants email writer access and returns
	// the new document ID.
	CloneLedger(ctx context.Context, email, phoneNumber string) (string, error)
}

// Drive implements Provisioner against the Google Drive API.
type Drive struct {
	svc             *drive.Service
	templateSheetID string
	folderID        string
}

// NewDrive creates the Drive provisioner. folderID may be empty, leaving
// clones in the template's location.
func NewDrive(ctx context.Context, templateSheetID, folderID string, opts ...option.ClientOption) (*Drive, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("provision: create drive service: %w", err)
	}
	return &Drive{svc: svc, templateSheetID: templateSheetID, folderID: folderID}, nil
}

// CloneLedger implements Provisioner.
func (d *Drive) CloneLedger(ctx context.Context, email, phoneNumber string) (string, error) {
	meta := &drive.File{
		Name: "SpendTrace Ledger: " + phoneNumber,
	}
	if d.folderID != "" {
		meta.Parents = []string{d.folderID}
	}

	// supportsAllDrives avoids quota rejections in shared folders.
	newFile, err := d.svc.Files.Copy(d.templateSheetID, meta).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("provision: copy template: %w", err)
	}

	perm := &drive.Permission{
		Type:         "user",
		Role:         "writer",
		EmailAddress: email,
	}
	_, err = d.svc.Permissions.Create(newFile.Id, perm).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("provision: grant access to %s: %w", email, err)
	}

	return newFile.Id, nil
}

// SheetURL renders the user-facing link for a provisioned document.
func SheetURL(sheetID string) string {
	return "https://docs.google.com/spreadsheets/d/" + sheetID
}

var _ Provisioner = (*Drive)(nil)
