package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-sync/internal/blob"
)

var (
	uploadAccount     string
	uploadKey         string
	uploadContainer   string
	uploadFile        string
	uploadDirectory   string
	uploadDestination string
	uploadEndpoint    string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a local file to Azure Blob Storage",
	Long:  "Upload a single file to an Azure Blob Storage (or Data Lake Gen2) container using an account key. Existing blobs are overwritten.",
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadAccount, "account", "", "Azure storage account name")
	uploadCmd.Flags().StringVar(&uploadKey, "key", "", "Azure storage account key")
	uploadCmd.Flags().StringVar(&uploadContainer, "container", "", "Container (filesystem) name")
	uploadCmd.Flags().StringVar(&uploadFile, "file", "", "Local path of the file to upload")
	uploadCmd.Flags().StringVar(&uploadDirectory, "directory", "", "Directory path in the container (default: root)")
	uploadCmd.Flags().StringVar(&uploadDestination, "destination", "", "Destination file name (default: source name)")
	uploadCmd.Flags().StringVar(&uploadEndpoint, "endpoint", "", "Blob service URL override")
	_ = uploadCmd.Flags().MarkHidden("endpoint")

	for _, name := range []string{"account", "key", "container", "file"} {
		_ = uploadCmd.MarkFlagRequired(name)
	}
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(uploadFile)
	if err != nil {
		return fmt.Errorf("local file not found: %w", err)
	}

	store, err := blob.NewAzureStore(blob.AzureConfig{
		AccountName: uploadAccount,
		AccountKey:  uploadKey,
		Container:   uploadContainer,
		Endpoint:    uploadEndpoint,
	})
	if err != nil {
		return err
	}

	path := uploadPath(uploadDirectory, uploadDestination, uploadFile)
	if _, err := store.Upload(cmd.Context(), path, data, blob.DetectContentType(data, "")); err != nil {
		return fmt.Errorf("failed to upload file to Azure Storage: %w", err)
	}
	log.Printf("Successfully uploaded %s to %s/%s", uploadFile, uploadContainer, path)
	return nil
}

// uploadPath joins the storage directory and the destination name, which
// defaults to the local file's base name.
func uploadPath(directory, destination, file string) string {
	if destination == "" {
		destination = filepath.Base(file)
	}
	directory = strings.Trim(directory, "/")
	if directory == "" {
		return destination
	}
	return directory + "/" + destination
}
