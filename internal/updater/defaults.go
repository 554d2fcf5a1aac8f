package updater

// DefaultProcessors returns the processor table used by the binaries. Scalar
// categories not listed here fall through to their column.
func DefaultProcessors(images ImageStore, posterDir, photoDir string) (*ProcessorRegistry, error) {
	people := PersonResolver{Images: images, PhotoDir: photoDir}
	return NewProcessorRegistry(
		ProcessorRegistration{Category: CategoryContentRating, Processor: ContentRatingProcessor{}},
		ProcessorRegistration{Category: CategoryGenre, Processor: ListReferenceProcessor{Category: CategoryGenre}},
		ProcessorRegistration{Category: CategoryCountry, Processor: ListReferenceProcessor{Category: CategoryCountry}},
		ProcessorRegistration{Category: CategoryLanguage, Processor: ListReferenceProcessor{Category: CategoryLanguage}},
		ProcessorRegistration{Category: CategoryCast, Processor: CastProcessor{People: people}},
		ProcessorRegistration{Category: CategoryCrew, Processor: CrewProcessor{People: people}},
		ProcessorRegistration{Category: CategoryPoster, Processor: PosterProcessor{Images: images, PosterDir: posterDir}},
	)
}
