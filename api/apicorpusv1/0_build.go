package apicorpusv1

import (
	"github.com/fulldump/box"

	"github.com/fulldump/corpusdb/service"
)

func BuildV1Corpus(v1 *box.R, s service.Servicer) *box.R {

	corpora := v1.Resource("/corpora").
		WithActions(
			box.Get(listCorpora).WithName("listCorpora"),
			box.Post(createCorpus).WithName("createCorpus"),
		)

	v1.Resource("/corpora/{corpusName}").
		WithActions(
			box.Get(getCorpus).WithName("getCorpus"),
			box.ActionPost(dropCorpus).WithName("drop"),
		)

	v1.Resource("/corpora/{corpusName}/entries").
		WithActions(
			box.Get(listEntries).WithName("listEntries"),
			box.Post(addEntries).WithName("addEntries"),
		)

	v1.Resource("/corpora/{corpusName}/entries/{entryId}").
		WithActions(
			box.Get(getEntry).WithName("getEntry"),
			box.Put(replaceEntry).WithName("replaceEntry"),
			box.Delete(removeEntry).WithName("removeEntry"),
			box.Action(nextEntry).WithName("next"),
			box.Action(prevEntry).WithName("prev"),
			box.ActionPost(setField).WithName("setField"),
			box.Action(getField).WithName("getField"),
		)

	v1.Resource("/corpora/{corpusName}/first").
		WithActions(
			box.Get(firstEntry).WithName("firstEntry"),
		)

	v1.Resource("/corpora/{corpusName}/last").
		WithActions(
			box.Get(lastEntry).WithName("lastEntry"),
		)

	v1.Resource("/corpora/{corpusName}/current").
		WithActions(
			box.Get(getCurrent).WithName("getCurrent"),
			box.Put(setCurrent).WithName("setCurrent"),
			box.Delete(clearCurrent).WithName("clearCurrent"),
		)

	return corpora
}
