package usecases

import (
	"context"
	"errors"
	"fmt"

	"agrimarket.backend/internal/domain/entities"
	domainerrors "agrimarket.backend/internal/domain/errors"
	"agrimarket.backend/internal/infrastructure/storage"
	"agrimarket.backend/pkg/logger"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// pendingFile is one upload of a step. A nil upload is an omitted optional file.
type pendingFile struct {
	field  entities.DocumentType
	upload *entities.FileUpload
}

// storeFiles checks every file first and rejects the step with one
// ValidationError naming all bad files. Accepted files are then uploaded
// concurrently; if any upload fails the ones already stored are removed.
func (u *OnboardingUsecase) storeFiles(ctx context.Context, namespace string, files []pendingFile) ([]entities.UploadedFile, error) {
	infos, err := u.inspectFiles(files)
	if err != nil {
		return nil, err
	}

	out := make([]entities.UploadedFile, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		if f.upload == nil {
			continue
		}
		info := infos[i]
		g.Go(func() error {
			key := storage.ObjectKey(namespace, string(f.field), info.Extension)
			if err := u.blobs.Put(gctx, key, info.ContentType, f.upload.Data); err != nil {
				return fmt.Errorf("store %s: %w", f.field, err)
			}
			out[i] = entities.UploadedFile{
				Field:       f.field,
				Ref:         key,
				ContentType: info.ContentType,
				Size:        info.Size,
				StoredAt:    u.now(),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		u.discardFiles(ctx, out)
		return nil, err
	}

	stored := out[:0]
	for _, f := range out {
		if f.Ref != "" {
			stored = append(stored, f)
		}
	}
	return stored, nil
}

func (u *OnboardingUsecase) inspectFiles(files []pendingFile) ([]*storage.Inspection, error) {
	infos := make([]*storage.Inspection, len(files))
	rejected := domainerrors.NewValidationError()

	for i, f := range files {
		if f.upload == nil {
			continue
		}
		allowed := storage.DocumentTypes
		if f.field.IsSelfie() {
			allowed = storage.ImageTypes
		}
		info, err := storage.Inspect(f.upload.Data, f.upload.Size, u.cfg.MaxUploadSize, allowed)
		if err != nil {
			reason, msg := u.describeRejection(f.field, err)
			u.metrics.IncrementUploadRejection(string(f.field), reason)
			rejected.Add(string(f.field), domainerrors.FieldUploadRejected, msg)
			continue
		}
		infos[i] = info
	}
	return infos, rejected.OrNil()
}

func (u *OnboardingUsecase) describeRejection(field entities.DocumentType, err error) (string, string) {
	switch {
	case errors.Is(err, storage.ErrEmptyFile):
		return "empty", "the file is empty"
	case errors.Is(err, storage.ErrFileTooLarge):
		return "too_large", fmt.Sprintf("the file may not be larger than %d KiB", u.cfg.MaxUploadSize>>10)
	case field.IsSelfie():
		return "unsupported_type", "the file must be a JPEG or PNG image"
	}
	return "unsupported_type", "the file must be a JPEG, PNG or PDF document"
}

// discardFiles deletes blobs of a step that did not commit
func (u *OnboardingUsecase) discardFiles(ctx context.Context, files []entities.UploadedFile) {
	cleanupCtx := context.WithoutCancel(ctx)
	for _, f := range files {
		if f.Ref == "" {
			continue
		}
		if err := u.blobs.Delete(cleanupCtx, f.Ref); err != nil {
			logger.Warn(ctx, "Failed to remove orphaned upload",
				zap.String("key", f.Ref),
				zap.Error(err),
			)
		}
	}
}

func refsByField(files []entities.UploadedFile) map[entities.DocumentType]string {
	refs := make(map[entities.DocumentType]string, len(files))
	for _, f := range files {
		refs[f.Field] = f.Ref
	}
	return refs
}

func optionalRef(refs map[entities.DocumentType]string, field entities.DocumentType) null.String {
	ref, ok := refs[field]
	return null.NewString(ref, ok && ref != "")
}
