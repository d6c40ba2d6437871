// Package admin implements the one-shot maintenance actions behind the
// adminKey-gated endpoints: bucket provisioning, identity record sync,
// asset refresh, and user file inspection/export.
package admin

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/batcaveos/backend/internal/domain/assets"
	"github.com/batcaveos/backend/internal/domain/identity"
	"github.com/batcaveos/backend/internal/shared/types"
	"github.com/batcaveos/backend/internal/shared/utils"
	"github.com/batcaveos/backend/internal/storage"
)

// Provisioner runs maintenance actions. Every action returns a result
// list rather than failing fast, so a partial run reports exactly which
// steps need a retry.
type Provisioner struct {
	store      storage.Store
	records    storage.ProfileRecords
	identities *identity.Store
	resolver   *assets.Resolver
	logger     *zap.Logger
}

// NewProvisioner wires a provisioner.
func NewProvisioner(
	store storage.Store,
	records storage.ProfileRecords,
	identities *identity.Store,
	resolver *assets.Resolver,
	logger *zap.Logger,
) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provisioner{
		store:      store,
		records:    records,
		identities: identities,
		resolver:   resolver,
		logger:     logger,
	}
}

// EnsureBuckets creates the standard buckets, updating visibility on
// the ones that already exist.
func (p *Provisioner) EnsureBuckets(ctx context.Context) []types.ActionResult {
	results := make([]types.ActionResult, 0, len(storage.DefaultBuckets()))
	for _, b := range storage.DefaultBuckets() {
		action := fmt.Sprintf("create bucket %s", b.Name)
		err := p.store.CreateBucket(ctx, b.Name, b.Public)
		if err != nil && strings.Contains(err.Error(), "already exists") {
			action = fmt.Sprintf("update bucket %s", b.Name)
			err = p.store.UpdateBucket(ctx, b.Name, b.Public)
		}
		results = append(results, result(action, err))
	}
	return results
}

// MakeBucketsPublic flips every existing bucket to public.
func (p *Provisioner) MakeBucketsPublic(ctx context.Context) []types.ActionResult {
	buckets, err := p.store.ListBuckets(ctx)
	if err != nil {
		return []types.ActionResult{result("list buckets", err)}
	}

	results := make([]types.ActionResult, 0, len(buckets))
	for _, b := range buckets {
		results = append(results,
			result(fmt.Sprintf("make bucket %s public", b.Name), p.store.UpdateBucket(ctx, b.Name, true)))
	}
	return results
}

// ConfigurePolicy sets one bucket's visibility.
func (p *Provisioner) ConfigurePolicy(ctx context.Context, bucket string, public bool) []types.ActionResult {
	visibility := "private"
	if public {
		visibility = "public"
	}
	return []types.ActionResult{
		result(fmt.Sprintf("set bucket %s %s", bucket, visibility), p.store.UpdateBucket(ctx, bucket, public)),
	}
}

// EnsureIdentities mirrors every profile into the durable record store.
func (p *Provisioner) EnsureIdentities(ctx context.Context) []types.ActionResult {
	profiles := p.identities.List()
	results := make([]types.ActionResult, 0, len(profiles))
	for _, profile := range profiles {
		results = append(results,
			result(fmt.Sprintf("upsert profile %s", profile.Username), p.records.Upsert(ctx, profile)))
	}
	return results
}

// RefreshAssets drops cached asset resolutions, for one identity or for
// all when identityID is empty.
func (p *Provisioner) RefreshAssets(identityID string) []types.ActionResult {
	if identityID == "" {
		p.resolver.InvalidateAll()
		return []types.ActionResult{{Action: "refresh all asset caches", Success: true}}
	}
	p.resolver.Invalidate(identityID)
	return []types.ActionResult{{Action: fmt.Sprintf("refresh assets for %s", identityID), Success: true}}
}

// DeleteFile removes one object.
func (p *Provisioner) DeleteFile(ctx context.Context, bucket, path string) []types.ActionResult {
	if err := utils.ValidateObjectPath(path); err != nil {
		return []types.ActionResult{result(fmt.Sprintf("delete %s/%s", bucket, path), err)}
	}
	return []types.ActionResult{
		result(fmt.Sprintf("delete %s/%s", bucket, path), p.store.Remove(ctx, bucket, path)),
	}
}

// UserObject is one stored object belonging to an identity.
type UserObject struct {
	Bucket string        `json:"bucket"`
	Entry  storage.Entry `json:"entry"`
}

// userBuckets are the namespaces user objects live in.
var userBuckets = []string{
	storage.BucketProfilePictures,
	storage.BucketBackgrounds,
	storage.BucketSongs,
}

// ListUserFiles returns every stored object for an identity across the
// standard buckets, covering both path conventions.
func (p *Provisioner) ListUserFiles(ctx context.Context, identityID string) ([]UserObject, error) {
	if err := utils.ValidateID(identityID, "userId", true); err != nil {
		return nil, err
	}

	var out []UserObject
	for _, bucket := range userBuckets {
		for _, prefix := range []string{"users/" + identityID + "/", identityID + "/"} {
			entries, err := p.store.List(ctx, bucket, prefix)
			if err != nil {
				return nil, fmt.Errorf("list %s: %w", bucket, err)
			}
			for _, e := range entries {
				out = append(out, UserObject{Bucket: bucket, Entry: e})
			}
		}
	}
	return out, nil
}

// ExportUserFiles streams an identity's stored objects as a tar.gz
// archive, one member per object named bucket/path.
func (p *Provisioner) ExportUserFiles(ctx context.Context, identityID string, w io.Writer) error {
	objects, err := p.ListUserFiles(ctx, identityID)
	if err != nil {
		return err
	}

	gz := gzip.NewWriter(w)
	tw := tar.NewWriter(gz)

	for _, obj := range objects {
		data, err := p.store.Download(ctx, obj.Bucket, obj.Entry.Path)
		if err != nil {
			p.logger.Warn("skipping unreadable object",
				zap.String("bucket", obj.Bucket),
				zap.String("path", obj.Entry.Path),
				zap.Error(err))
			continue
		}
		hdr := &tar.Header{
			Name:    obj.Bucket + "/" + obj.Entry.Path,
			Mode:    0o644,
			Size:    int64(len(data)),
			ModTime: obj.Entry.UpdatedAt,
		}
		if err := tw.WriteHeader(hdr); err != nil {
			return fmt.Errorf("write archive header: %w", err)
		}
		if _, err := tw.Write(data); err != nil {
			return fmt.Errorf("write archive member: %w", err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close archive: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close compressor: %w", err)
	}
	return nil
}

func result(action string, err error) types.ActionResult {
	r := types.ActionResult{Action: action, Success: err == nil}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}
