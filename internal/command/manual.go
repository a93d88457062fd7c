package command

const banner = `Hello, I am Sisyphus, what can I do for you?
Enter date in yyyy-MM-dd format and date and time in yyyy-MM-dd HH:mm
Type "manual" to see every command.`

const manual = `Commands:
  todo <description>
  deadline <description> /by <date>
  event <description> /from <start> /to <end>
  list
  latest
  find <word>
  mark <number>
  unmark <number>
  delete <number>
  manual
  bye

Dates are yyyy-MM-dd or yyyy-MM-dd HH:mm.
bye saves the list; an empty list is not saved and the file keeps its old tasks.`

// Banner is the greeting shown once when a session starts.
func Banner() string { return banner }

func Manual() string { return manual }
