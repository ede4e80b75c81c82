// File: internal/service/house.go
package service

import (
	"context"
	"fmt"

	"house-admin/internal/database"
	"house-admin/internal/form"
	"house-admin/internal/model"
	"house-admin/internal/storage"
	"house-admin/internal/store"
	"house-admin/internal/worker"
)

var (
	createHouse  = store.CreateHouse
	updateHouse  = store.UpdateHouse
	deleteHouse  = store.DeleteHouse
	newImageName = storage.NewImageName
)

// RegisterHouse stores the optional image and inserts a new house. When
// the insert fails the just-stored image is removed again.
func RegisterHouse(ctx context.Context, db database.DB, images storage.ImageStore, f form.HouseFields, image *form.ImageUpload) (*model.House, error) {
	h := f.ToHouse()
	if image != nil {
		name, err := saveImage(ctx, images, image)
		if err != nil {
			return nil, err
		}
		h.ImageName = name
	}

	created, err := createHouse(ctx, db, h)
	if err != nil {
		if h.ImageName != "" {
			_ = images.Remove(ctx, h.ImageName)
		}
		return nil, err
	}
	return created, nil
}

// EditHouse overwrites the mutable fields of house id. Without a new image
// the stored image name is kept; with one, the superseded file is removed
// in the background.
func EditHouse(ctx context.Context, db database.DB, images storage.ImageStore, wp worker.Pool, id int, f form.HouseFields, image *form.ImageUpload) (*model.House, error) {
	h := f.ToHouse()
	h.ID = id
	var stored string
	if image != nil {
		name, err := saveImage(ctx, images, image)
		if err != nil {
			return nil, err
		}
		stored = name
		h.ImageName = name
	}

	previous, err := updateHouse(ctx, db, h)
	if err != nil {
		if stored != "" {
			_ = images.Remove(ctx, stored)
		}
		return nil, err
	}
	if previous != "" && previous != h.ImageName {
		RemoveImageLater(wp, images, previous)
	}
	return h, nil
}

// DeleteHouse hard-deletes house id and drops its image in the background.
// A missing id yields store.ErrNotFound.
func DeleteHouse(ctx context.Context, db database.DB, images storage.ImageStore, wp worker.Pool, id int) error {
	imageName, err := deleteHouse(ctx, db, id)
	if err != nil {
		return err
	}
	if imageName != "" {
		RemoveImageLater(wp, images, imageName)
	}
	return nil
}

// RemoveImageLater queues the removal of a stored image.
func RemoveImageLater(wp worker.Pool, images storage.ImageStore, name string) {
	wp.Submit(worker.Task{
		Name: "remove image " + name,
		Run: func(ctx context.Context) error {
			return images.Remove(ctx, name)
		},
	})
}

// saveImage 以偵測到的副檔名命名並存檔。尚未經 form.CheckImage
// 檢查的上傳會先在此檢查，非圖片內容不會被存下。
func saveImage(ctx context.Context, images storage.ImageStore, image *form.ImageUpload) (string, error) {
	if image.Ext == "" {
		if fe := form.CheckImage(image); fe != nil {
			return "", fmt.Errorf("saveImage: %s %s", fe.Field, fe.Message)
		}
	}
	src, err := image.Open()
	if err != nil {
		return "", fmt.Errorf("saveImage: %w", err)
	}
	defer src.Close()

	name := newImageName(image.Ext)
	if err := images.Save(ctx, name, src); err != nil {
		return "", fmt.Errorf("saveImage: %w", err)
	}
	return name, nil
}
