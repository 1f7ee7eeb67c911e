package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tindog-backend/internal/apperr"
	"tindog-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verified = Caller{UserID: "alice", EmailVerified: true}

func TestClassify_CallerChecks(t *testing.T) {
	objects := newFakeObjectStore(map[string]string{"dogs/1.jpg": "image/jpeg"})
	gen := &fakeGenerator{}
	svc := NewPhotoService(objects, gen)
	ctx := context.Background()

	_, err := svc.Classify(ctx, Caller{}, "dogs/1.jpg")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))

	_, err = svc.Classify(ctx, Caller{UserID: "alice"}, "dogs/1.jpg")
	assert.Equal(t, apperr.PermissionDenied, apperr.KindOf(err))

	_, err = svc.Classify(ctx, verified, "")
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	assert.Empty(t, gen.images)
	assert.Empty(t, objects.public)
}

func TestClassify_MissingFile(t *testing.T) {
	svc := NewPhotoService(newFakeObjectStore(map[string]string{}), &fakeGenerator{})

	_, err := svc.Classify(context.Background(), verified, "dogs/missing.jpg")
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestClassify_NotAnImage(t *testing.T) {
	objects := newFakeObjectStore(map[string]string{"dogs/notes.txt": "text/plain"})
	gen := &fakeGenerator{}
	svc := NewPhotoService(objects, gen)

	_, err := svc.Classify(context.Background(), verified, "dogs/notes.txt")
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))
	assert.Empty(t, gen.images)
	assert.False(t, objects.public["dogs/notes.txt"])
}

func TestClassify_Dog(t *testing.T) {
	isDog := true
	want := &models.DogData{
		IsDog:       &isDog,
		Breed:       strPtr("Golden Retriever"),
		Size:        sizePtr(models.SizeLarge),
		Description: strPtr("Loves tennis balls and long naps."),
	}
	objects := newFakeObjectStore(map[string]string{"dogs/1.jpg": "image/jpeg"})
	gen := &fakeGenerator{data: want}
	svc := NewPhotoService(objects, gen)

	got, err := svc.Classify(context.Background(), verified, "dogs/1.jpg")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	assert.True(t, objects.public["dogs/1.jpg"])
	require.Len(t, gen.images, 1)
	assert.Equal(t, "https://storage.example.com/tindog/dogs/1.jpg", gen.images[0].URL)
	assert.Equal(t, "image/jpeg", gen.images[0].ContentType)
	assert.True(t, strings.HasPrefix(gen.prompts[0], "What's the breed of this dog?"))
	assert.Empty(t, objects.deleted)
}

func TestClassify_NotADogKeepsPhoto(t *testing.T) {
	isDog := false
	objects := newFakeObjectStore(map[string]string{"dogs/cat.png": "image/png"})
	svc := NewPhotoService(objects, &fakeGenerator{data: &models.DogData{IsDog: &isDog}})

	got, err := svc.Classify(context.Background(), verified, "dogs/cat.png")
	require.NoError(t, err)
	require.NotNil(t, got.IsDog)
	assert.False(t, *got.IsDog)
	assert.Empty(t, objects.deleted)
	assert.Contains(t, objects.objects, "dogs/cat.png")
}

func TestClassify_EmptyModelOutput(t *testing.T) {
	objects := newFakeObjectStore(map[string]string{"dogs/1.jpg": "image/jpeg"})
	svc := NewPhotoService(objects, &fakeGenerator{})

	got, err := svc.Classify(context.Background(), verified, "dogs/1.jpg")
	require.NoError(t, err)
	assert.False(t, *got.IsDog)
	assert.Empty(t, objects.deleted)
}

func TestClassify_ModelFailureDeletesPhoto(t *testing.T) {
	objects := newFakeObjectStore(map[string]string{
		"dogs/123.jpg":                    "image/jpeg",
		"dogs/thumbnails/123_200x200.jpg": "image/jpeg",
	})
	svc := NewPhotoService(objects, &fakeGenerator{imageErr: errors.New("model overloaded")})

	got, err := svc.Classify(context.Background(), verified, "dogs/123.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.DogData{IsDog: got.IsDog}, *got)
	assert.False(t, *got.IsDog)
	assert.Equal(t, []string{"dogs/123.jpg", "dogs/thumbnails/123_200x200.jpg"}, objects.deleted)
	assert.Empty(t, objects.objects)
}

func TestClassify_DeleteFailureIsIgnored(t *testing.T) {
	objects := newFakeObjectStore(map[string]string{"dogs/123.jpg": "image/jpeg"})
	objects.deleteErr = errors.New("access denied")
	svc := NewPhotoService(objects, &fakeGenerator{imageErr: errors.New("timeout")})

	got, err := svc.Classify(context.Background(), verified, "dogs/123.jpg")
	require.NoError(t, err)
	assert.False(t, *got.IsDog)
	assert.Len(t, objects.deleted, 2)
}

func TestClassify_OutOfShapeOutputDeletesPhoto(t *testing.T) {
	isDog := true
	objects := newFakeObjectStore(map[string]string{"dogs/1.jpg": "image/jpeg"})
	svc := NewPhotoService(objects, &fakeGenerator{data: &models.DogData{IsDog: &isDog, Size: sizePtr("enormous")}})

	got, err := svc.Classify(context.Background(), verified, "dogs/1.jpg")
	require.NoError(t, err)
	assert.False(t, *got.IsDog)
	assert.Contains(t, objects.deleted, "dogs/1.jpg")
}

func TestGetUploadURL(t *testing.T) {
	svc := NewPhotoService(newFakeObjectStore(map[string]string{}), &fakeGenerator{})
	ctx := context.Background()

	resp, err := svc.GetUploadURL(ctx, verified, "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.FilePath, "dogs/"))
	assert.True(t, strings.HasSuffix(resp.FilePath, ".png"))
	assert.Equal(t, 300, resp.ExpiresIn)
	assert.Equal(t, "https://upload.example.com/"+resp.FilePath+"?type=image/png&ttl=300", resp.UploadURL)

	_, err = svc.GetUploadURL(ctx, verified, "application/pdf")
	assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(err))

	_, err = svc.GetUploadURL(ctx, Caller{}, "image/png")
	assert.Equal(t, apperr.Unauthenticated, apperr.KindOf(err))
}
