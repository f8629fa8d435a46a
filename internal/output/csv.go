package output

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/salonkit/stylesync/pkg/models"
)

// SaveCSV writes the profile's image URL list to a CSV file. Returns an
// error on failure.
func SaveCSV(profile *models.SalonProfile, filepath string) error {
	file, err := os.Create(filepath)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"index", "salon", "image_url"}); err != nil {
		return err
	}
	for i, u := range profile.ImageURLs {
		if err := writer.Write([]string{strconv.Itoa(i + 1), profile.Name, u}); err != nil {
			return err
		}
	}

	return nil
}
