package services

import (
	"fmt"

	"tindog-backend/internal/models"
)

const classifyPrompt = "What's the breed of this dog? Please provide a breed name. " +
	"Also, try to determine the dog's size based on the image. " +
	"Add a description considering the breed, it should be friendly and engaging, as if its owner wrote it, keep it short. " +
	"If there's not a dog in this image, please let me know."

func openingPrompt(first, second models.DogData) string {
	return fmt.Sprintf("Two dog owners have matched in a social media platform called Tindog focused on dogs. "+
		"They are about to start a conversation. "+
		"Write the first message as if you were Tindog encouraging the dog owners to start interacting with each other. "+
		"The message should be friendly and engaging. "+
		"We should take into consideration the breed of the dogs and find common interests and temperaments based on the following information:\n\n"+
		"First dog:\n\n%s\n\nSecond dog:\n\n%s.",
		describeDog(first), describeDog(second))
}

func describeDog(d models.DogData) string {
	size := "unknown"
	if d.Size != nil {
		size = string(*d.Size)
	}
	return fmt.Sprintf("Breed: %s \nSize: %s \nDescription: %s", orUnknown(d.Breed), size, orUnknown(d.Description))
}

func orUnknown(s *string) string {
	if s == nil || *s == "" {
		return "unknown"
	}
	return *s
}
