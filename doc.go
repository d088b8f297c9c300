// Package boneview is an interactive 3D skeleton viewer for [Ebitengine].
//
// A skeleton is a [Model] made of pickable [BoneMesh] values. The user
// clicks a bone to highlight it, hovers to preview, and drags or scrolls to
// orbit the camera. Selecting a bone eases the camera toward it and shows
// the bone's [BoneMetadata] in an [InfoPanel].
//
// # Quick start
//
//	model, err := boneview.NewSkeleton()
//	if err != nil {
//		log.Fatal(err)
//	}
//	catalog, _ := boneview.LoadCatalog(f)
//	v, err := boneview.NewViewer(model, catalog, boneview.DefaultViewerConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	boneview.Run(v, boneview.RunConfig{Title: "Skeleton"})
//
// # Interaction
//
// [Interactor] is the selection and camera focus controller. It can be used
// without a Viewer: give it a [Camera], the meshes to pick from and,
// optionally, a [Surface] to listen on.
//
//	it, err := boneview.NewInteractor(boneview.InteractorConfig{
//		Camera:   cam,
//		Surface:  surface,
//		Root:     model,
//		Catalog:  catalog,
//		OnSelect: func(name string, meta boneview.BoneMetadata) { ... },
//	})
//	defer it.Cleanup()
//
// Call [Interactor.Tick] once per frame with the frame time to advance the
// focus animation. A double-click on the background, or
// [Interactor.ResetSelection], returns to the initial view.
//
// Selection events can also be published into a [Donburi] world through
// the boneview/ecs package.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package boneview
